package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "MACU Schedule Combiner"
	AppVersion = "1.0.0"
	AppVendor  = "MACU Athletics"

	// EnvPrefix namespaces every environment variable, e.g. SCHED_SERVER_PORT
	EnvPrefix = "SCHED"
	// ConfigFileEnv points at an explicit YAML config file
	ConfigFileEnv = "SCHED_CONFIG_FILE"

	// Upload limits
	DefaultMaxFiles     = 50
	DefaultMaxFileBytes = 10 << 20 // 10MB

	// Export naming
	DefaultFilenamePrefix = "combined_macu_schedule"
	DefaultScheduleSheet  = "Schedule"
	DefaultSummarySheet   = "Match Counts"

	// Network Timeouts
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50
)

// DefaultAllowedExtensions lists the spreadsheet formats accepted as input
var DefaultAllowedExtensions = []string{".xlsx", ".xlsm", ".xls", ".csv"}
