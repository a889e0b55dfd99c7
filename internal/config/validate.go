package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Config.
//
// Field names the offending flag (e.g. "db_driver"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Field    string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Field, i.Message)
}

// Validate performs static validation of a loaded Config.
//
// It does not mutate the config. Callers decide whether to treat warnings as
// fatal or not; HasErrors is the usual gate.
func (c *Config) Validate() []Issue {
	var issues []Issue

	add := func(sev IssueSeverity, field, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.SpecWorkbook) == "" {
		add(SeverityError, "spec", "specification workbook path is required")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		add(SeverityError, "data_dir", "data directory is required")
	}
	if strings.TrimSpace(c.Prefix) == "" {
		add(SeverityWarning, "prefix", "no ImportID prefix set; any identifier-shaped line followed by a pipe starts a record")
	}

	switch c.DBDriver {
	case "postgres", "mssql", "sqlite":
	case "":
		add(SeverityError, "db_driver", "storage backend is required")
	default:
		add(SeverityError, "db_driver", "unknown storage backend %q", c.DBDriver)
	}
	if strings.TrimSpace(c.DSN) == "" {
		add(SeverityError, "dsn", "database DSN is required")
	}

	if c.BatchSize <= 0 {
		add(SeverityError, "batch_size", "batch size must be positive, got %d", c.BatchSize)
	}
	if c.FlushTimeoutSec <= 0 {
		add(SeverityWarning, "flush_timeout", "non-positive flush timeout disables the per-batch deadline")
	}

	switch c.MetricsBackend {
	case "", "none":
	case "prometheus":
		if strings.TrimSpace(c.PushgatewayURL) == "" {
			add(SeverityError, "pushgateway", "prometheus metrics require a Pushgateway URL")
		}
	case "datadog":
		if strings.TrimSpace(c.DatadogAddr) == "" {
			add(SeverityError, "datadog_addr", "datadog metrics require a DogStatsD address")
		}
	default:
		add(SeverityError, "metrics", "unknown metrics backend %q", c.MetricsBackend)
	}

	return issues
}

// HasErrors reports whether any issue carries SeverityError.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
