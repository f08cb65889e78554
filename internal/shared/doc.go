// Package shared holds helpers used by more than one package and owned by
// none of them.
//
// The testutil subpackage captures slog records in memory so tests can
// assert on what a component logged. Loggers derived with With share the
// parent's store.
//
//	logger, handler := testutil.NewTestLogger(t)
//	merger := dataprocessing.NewMerger(reader, logger)
//	...
//	testutil.AssertLogContains(t, handler, slog.LevelWarn, "Skipping file")
//
// Nothing here may import a domain package.
package shared
