// Package config provides configuration for the schedule combiner's web
// server and CLI.
//
// # Configuration Sources
//
// Configuration is layered in the following order, later sources winning:
//
//  1. Default values (Default)
//  2. A YAML file: $SCHED_CONFIG_FILE, or the first of config.yaml,
//     configs/config.yaml, ../configs/config.yaml, ../../configs/config.yaml
//  3. Environment variables (highest priority)
//
// # Environment Variables
//
// Environment variables follow the pattern SCHED_<SECTION>_<KEY>:
//
//	SCHED_SERVER_PORT=8080
//	SCHED_LOGGING_LEVEL=debug
//	SCHED_UPLOAD_MAX_FILES=20
//	SCHED_UPLOAD_ALLOWED_EXTENSIONS=.xlsx,.csv
//	SCHED_EXPORT_FILENAME_PREFIX=combined_macu_schedule
//	SCHED_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// The merged configuration is checked with validator struct tags; Load
// returns an error describing every failing field.
package config
