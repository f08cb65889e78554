// Package files finds and loads schedule spreadsheets on disk for the
// command-line combiner.
//
// Discovery lists candidate files in a directory, filtered by extension
// and sorted by name. Manager reads them into dataprocessing.SourceFile
// values.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	found, err := discovery.FindScheduleFiles("schedules", []string{".xlsx", ".csv"})
//
//	manager := files.NewManager("", 10<<20)
//	sources, err := manager.ReadSourceFiles(files.Paths(found))
package files
