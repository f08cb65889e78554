// Command combine merges team schedule spreadsheets into one workbook with
// a Schedule sheet and a Match Counts sheet.
//
// Usage:
//
//	combine [-dir schedules] [-out path] [-format xlsx|csv] [-table schedule|summary] [-config file] [files...]
//
// Exit status is 0 on success, 2 when no file yielded schedule rows and 1
// on any other error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"macuschedule/internal/config"
	"macuschedule/internal/files"
	"macuschedule/internal/infrastructure"
	"macuschedule/internal/services"
	"macuschedule/internal/validation"
)

const (
	exitOK     = 0
	exitError  = 1
	exitNoData = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	dir        string
	out        string
	format     string
	table      string
	configFile string
	files      []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("combine", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.dir, "dir", "", "directory to scan for .xlsx, .xlsm, .xls and .csv schedules")
	fs.StringVar(&opts.out, "out", "", "output file (defaults to a timestamped name in the configured output directory)")
	fs.StringVar(&opts.format, "format", services.FormatXLSX, "output format: xlsx or csv")
	fs.StringVar(&opts.table, "table", services.TableSchedule, "table to write for csv output: schedule or summary")
	fs.StringVar(&opts.configFile, "config", "", "path to a YAML config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.files = fs.Args()
	opts.format = strings.ToLower(opts.format)
	opts.table = strings.ToLower(opts.table)

	if opts.dir == "" && len(opts.files) == 0 {
		fs.Usage()
		return nil, errors.New("give -dir or at least one schedule file")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	// stdout carries only the output path
	logger, err := infrastructure.InitializeLoggerTo(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "Error: failed to initialize logger:", err)
		return exitError
	}

	paths, err := collectInputs(opts, cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "No schedule files found.")
		return exitNoData
	}

	logger.Info("Combining schedules",
		slog.Int("files", len(paths)),
		slog.String("format", opts.format),
		slog.String("table", opts.table))

	sources, err := files.NewManager("", cfg.Upload.MaxFileBytes).ReadSourceFiles(paths)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	metrics, shutdown := cliTelemetry(cfg, logger)
	defer shutdown()

	svc := services.NewScheduleService(cfg, metrics, logger)
	result, err := svc.Merge(ctx, sources)
	if result != nil {
		for _, w := range result.Warnings {
			fmt.Fprintln(stderr, "Warning:", w.Message)
		}
	}
	switch {
	case errors.Is(err, services.ErrNoScheduleData):
		fmt.Fprintln(stderr, "No data to process. Please check your files.")
		return exitNoData
	case err != nil:
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	if opts.out == "" && cfg.Export.OutputDir != "" {
		if err := validation.NewFileValidator(logger).ValidateOutputDirectory(cfg.Export.OutputDir); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return exitError
		}
	}

	path, err := svc.Save(ctx, result, opts.format, opts.table, opts.out)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitError
	}

	fmt.Fprintf(stderr, "Combined %d rows from %d of %d files (%d dates).\n",
		len(result.Schedule), result.FilesMerged, len(sources), result.Summary.DistinctDates)
	fmt.Fprintln(stdout, path)
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// collectInputs resolves -dir and positional arguments into file paths.
// Positional arguments may be glob patterns.
func collectInputs(opts *options, cfg *config.Config, logger *slog.Logger) ([]string, error) {
	validator := validation.NewFileValidator(logger)
	discovery := files.NewDiscovery("")
	extensions := cfg.Upload.AllowedExtensions

	var paths []string
	if opts.dir != "" {
		if _, err := validator.ValidateInputDirectory(opts.dir, extensions); err != nil {
			return nil, err
		}
		found, err := discovery.FindScheduleFiles(opts.dir, extensions)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files.Paths(found)...)
	}

	for _, arg := range opts.files {
		if strings.ContainsAny(arg, "*?[") {
			found, err := discovery.FindFilesByPattern(filepath.Dir(arg), filepath.Base(arg))
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				if files.HasExtension(f.Name, extensions) {
					paths = append(paths, f.Path)
				}
			}
			continue
		}
		if err := validator.ValidateScheduleFile(arg, extensions); err != nil {
			return nil, err
		}
		paths = append(paths, arg)
	}

	if len(paths) > cfg.Upload.MaxFiles {
		return nil, fmt.Errorf("%d files found, the limit is %d", len(paths), cfg.Upload.MaxFiles)
	}
	return paths, nil
}

// cliTelemetry sets up OpenTelemetry for a one-shot run. The metric
// exporter stays off; spans go to the configured trace exporter.
func cliTelemetry(cfg *config.Config, logger *slog.Logger) (*infrastructure.BusinessMetrics, func()) {
	telemetry := cfg.Telemetry
	telemetry.MetricsEnabled = false
	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(telemetry, config.AppVersion), logger)
	if err != nil {
		logger.Warn("OpenTelemetry disabled", slog.String("error", err.Error()))
		return nil, func() {}
	}
	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		logger.Warn("Business metrics disabled", slog.String("error", err.Error()))
	}
	return metrics, func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}
}
