package config

import (
	"flag"
	"testing"
)

func testLoad(t *testing.T, env map[string]string, args []string) *Config {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	getenv := func(k string) string { return env[k] }
	return LoadFromArgs(fs, getenv, args)
}

// TestLoadFromArgs_Defaults checks the built-in defaults with no env and no
// flags.
func TestLoadFromArgs_Defaults(t *testing.T) {
	t.Parallel()

	cfg := testLoad(t, nil, nil)
	if cfg.SpecWorkbook != "spec.xlsx" {
		t.Errorf("SpecWorkbook = %q", cfg.SpecWorkbook)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.BatchSize != 10000 {
		t.Errorf("BatchSize = %d", cfg.BatchSize)
	}
	if cfg.FlushTimeoutSec != 300 {
		t.Errorf("FlushTimeoutSec = %d", cfg.FlushTimeoutSec)
	}
	if !cfg.AutoCreateTable {
		t.Errorf("AutoCreateTable should default to true")
	}
	if cfg.Truncate {
		t.Errorf("Truncate should default to false")
	}
	if cfg.RunID == "" {
		t.Errorf("RunID should be generated")
	}
}

// TestLoadFromArgs_EnvSeedsDefaults verifies environment values seed flag
// defaults.
func TestLoadFromArgs_EnvSeedsDefaults(t *testing.T) {
	t.Parallel()

	cfg := testLoad(t, map[string]string{
		"DB_DRIVER":     "mssql",
		"BATCH_SIZE":    "500",
		"TRUNCATE":      "yes",
		"IMPORT_PREFIX": "ABC_",
		"RUN_ID":        "fixed-run",
	}, nil)
	if cfg.DBDriver != "mssql" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.BatchSize != 500 {
		t.Errorf("BatchSize = %d", cfg.BatchSize)
	}
	if !cfg.Truncate {
		t.Errorf("Truncate should be seeded true")
	}
	if cfg.Prefix != "ABC_" {
		t.Errorf("Prefix = %q", cfg.Prefix)
	}
	if cfg.RunID != "fixed-run" {
		t.Errorf("RunID = %q", cfg.RunID)
	}
}

// TestLoadFromArgs_FlagsOverrideEnv verifies CLI flags beat env values.
func TestLoadFromArgs_FlagsOverrideEnv(t *testing.T) {
	t.Parallel()

	cfg := testLoad(t, map[string]string{"BATCH_SIZE": "500"}, []string{"-batch_size=42", "-db_driver=sqlite"})
	if cfg.BatchSize != 42 {
		t.Errorf("BatchSize = %d, want flag value 42", cfg.BatchSize)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
}

// TestValidate_CompleteConfig produces no issues for a fully specified config.
func TestValidate_CompleteConfig(t *testing.T) {
	t.Parallel()

	cfg := testLoad(t, map[string]string{
		"IMPORT_PREFIX": "ABC_",
		"DB_DSN":        "postgres://u:p@localhost/db",
	}, nil)
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
}

// TestValidate_MissingRequired flags a missing DSN as an error and a missing
// prefix as a warning.
func TestValidate_MissingRequired(t *testing.T) {
	t.Parallel()

	cfg := testLoad(t, nil, nil)
	issues := cfg.Validate()
	if !HasErrors(issues) {
		t.Fatalf("want errors, got %v", issues)
	}
	sev := map[string]IssueSeverity{}
	for _, i := range issues {
		sev[i.Field] = i.Severity
	}
	if sev["dsn"] != SeverityError {
		t.Fatalf("expected dsn error, got %v", issues)
	}
	if sev["prefix"] != SeverityWarning {
		t.Fatalf("expected prefix warning, got %v", issues)
	}
}

// TestValidate_EmptyPrefixNotFatal keeps an otherwise complete config
// runnable without a prefix; the generic boundary pattern takes over.
func TestValidate_EmptyPrefixNotFatal(t *testing.T) {
	t.Parallel()

	cfg := testLoad(t, map[string]string{"DB_DSN": "x"}, nil)
	if HasErrors(cfg.Validate()) {
		t.Fatalf("empty prefix should not block, got %v", cfg.Validate())
	}
}

// TestValidate_MetricsBackends checks backend-specific requirements.
func TestValidate_MetricsBackends(t *testing.T) {
	t.Parallel()

	base := map[string]string{
		"IMPORT_PREFIX": "ABC_",
		"DB_DSN":        "x",
	}

	cfg := testLoad(t, base, []string{"-metrics=prometheus"})
	if !HasErrors(cfg.Validate()) {
		t.Errorf("prometheus without pushgateway should be an error")
	}

	cfg = testLoad(t, base, []string{"-metrics=prometheus", "-pushgateway=http://pg:9091"})
	if HasErrors(cfg.Validate()) {
		t.Errorf("unexpected issues: %v", cfg.Validate())
	}

	cfg = testLoad(t, base, []string{"-metrics=bogus"})
	if !HasErrors(cfg.Validate()) {
		t.Errorf("unknown metrics backend should be an error")
	}
}

// TestValidate_BadBatchSize rejects non-positive batch sizes.
func TestValidate_BadBatchSize(t *testing.T) {
	t.Parallel()

	cfg := testLoad(t, map[string]string{"IMPORT_PREFIX": "ABC_", "DB_DSN": "x"}, []string{"-batch_size=0"})
	if !HasErrors(cfg.Validate()) {
		t.Fatalf("batch_size=0 should be an error")
	}
}
