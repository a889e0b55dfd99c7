// Package config centralizes application configuration. All tunables live
// outside the code and are sourced from command-line flags with
// environment-variable fallbacks (12-factor friendly). Flags are defined
// first so that `-help` shows all available knobs and their defaults.
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-batch_size=4"})
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Config holds all process configuration derived from flags and environment
// variables. All fields are plain values so the struct can be safely copied
// and used across goroutines after construction.
type Config struct {
	// IO controls input and diagnostic file locations.
	SpecWorkbook string // Path to the .xlsx table specification workbook.
	DataDir      string // Directory containing the .dat export files.
	Prefix       string // Literal ImportID prefix marking record boundaries.
	Encoding     string // Source charset; empty means UTF-8.
	WarnDir      string // Directory for conversion-warning CSV logs.

	// DB describes the target database.
	DBDriver string // Storage backend kind: "postgres", "mssql", or "sqlite".
	DSN      string // Full DSN for the chosen driver.
	Schema   string // Destination schema; empty applies the backend default.

	// Import tunables control ingestion throughput and behavior.
	BatchSize       int  // Rows per bulk insert.
	FlushTimeoutSec int  // Seconds each bulk insert may take before timing out.
	ProgressEvery   int  // Log a progress line every N rows; 0 disables.
	AutoCreateTable bool // Create missing destination tables from the workbook.
	Truncate        bool // Empty each destination table before loading.

	// Metrics selects the observability backend.
	MetricsBackend string // "none", "prometheus", or "datadog".
	PushgatewayURL string // Prometheus Pushgateway base URL.
	DatadogAddr    string // DogStatsD address, e.g. "127.0.0.1:8125".

	Verbose bool

	// RunID uniquely identifies this process run; it names the Pushgateway
	// job and the warning-log files.
	RunID string
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag to
// an environment-variable fallback via getenv, and then parsing args.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
//
// The returned Config is fully populated; no further mutation occurs.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		if v := strings.ToLower(getenv(k)); v != "" {
			switch v {
			case "1", "true", "yes", "on":
				return true
			case "0", "false", "no", "off":
				return false
			}
		}
		return d
	}

	// IO paths
	fs.StringVar(&cfg.SpecWorkbook, "spec", envOrDefaultFn("SPEC_WORKBOOK", "spec.xlsx"), "Path to the table specification workbook")
	fs.StringVar(&cfg.DataDir, "data_dir", envOrDefaultFn("DATA_DIR", "."), "Directory containing .dat export files")
	fs.StringVar(&cfg.Prefix, "prefix", getenv("IMPORT_PREFIX"), "Literal ImportID prefix marking record boundaries")
	fs.StringVar(&cfg.Encoding, "encoding", getenv("SOURCE_ENCODING"), "Source charset (empty for UTF-8)")
	fs.StringVar(&cfg.WarnDir, "warn_dir", envOrDefaultFn("WARN_DIR", "./warnings"), "Directory for conversion-warning CSV logs")

	// DB connectivity
	fs.StringVar(&cfg.DBDriver, "db_driver", envOrDefaultFn("DB_DRIVER", "postgres"), "Storage backend: 'postgres', 'mssql', or 'sqlite'")
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full DSN for the chosen driver")
	fs.StringVar(&cfg.Schema, "schema", getenv("DB_SCHEMA"), "Destination schema (empty for the backend default)")

	// Throughput and toggles
	fs.IntVar(&cfg.BatchSize, "batch_size", intEnvOrDefaultFn("BATCH_SIZE", 10000), "Rows per bulk insert")
	fs.IntVar(&cfg.FlushTimeoutSec, "flush_timeout", intEnvOrDefaultFn("FLUSH_TIMEOUT", 300), "Seconds each bulk insert may take")
	fs.IntVar(&cfg.ProgressEvery, "progress_every", intEnvOrDefaultFn("PROGRESS_EVERY", 100000), "Log progress every N rows (0 disables)")
	fs.BoolVar(&cfg.AutoCreateTable, "auto_create", boolEnvOrDefaultFn("AUTO_CREATE", true), "Create missing destination tables from the workbook")
	fs.BoolVar(&cfg.Truncate, "truncate", boolEnvOrDefaultFn("TRUNCATE", false), "Empty each destination table before loading")

	// Metrics
	fs.StringVar(&cfg.MetricsBackend, "metrics", envOrDefaultFn("METRICS_BACKEND", "none"), "Metrics backend: 'none', 'prometheus', or 'datadog'")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway", getenv("PUSHGATEWAY_URL"), "Prometheus Pushgateway base URL")
	fs.StringVar(&cfg.DatadogAddr, "datadog_addr", envOrDefaultFn("DATADOG_ADDR", "127.0.0.1:8125"), "DogStatsD address")

	fs.BoolVar(&cfg.Verbose, "v", boolEnvOrDefaultFn("VERBOSE", false), "Verbose logging")

	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)

	cfg.RunID = envOrDefaultFn("RUN_ID", uuid.NewString())
	return cfg
}

// Load reads configuration from os.Args and the process environment.
func Load() *Config {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	return LoadFromArgs(fs, os.Getenv, os.Args[1:])
}
