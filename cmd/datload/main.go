// Command datload imports DAT export files into a relational database.
//
// It reads the table specification workbook, discovers .dat files in the
// data directory, matches each file to its destination table by name, and
// imports the files one after another. Each file is reconstructed into
// logical records, type-converted, and bulk-inserted in batches; the first
// malformed record or conversion failure aborts that file and the run moves
// on to the next one.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"datloader/internal/config"
	"datloader/internal/convert"
	"datloader/internal/datasource/file"
	"datloader/internal/importer"
	"datloader/internal/metrics"
	"datloader/internal/metrics/datadog"
	"datloader/internal/metrics/prompush"
	"datloader/internal/spec"
	"datloader/internal/storage"
	"datloader/internal/warnlog"

	// register all backends with the storage factory.
	// config specifies which to use but we build in support for all of them.
	_ "datloader/internal/storage/all"
)

func main() {
	// A missing .env is fine; explicit env and flags still apply.
	_ = godotenv.Load()

	cfg := config.Load()

	issues := cfg.Validate()
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Field, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Fatalf("configuration is invalid")
	}

	setupMetrics(cfg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	tables, err := spec.ReadWorkbook(cfg.SpecWorkbook)
	if err != nil {
		log.Fatalf("read specification workbook: %v", err)
	}
	if cfg.Verbose {
		log.Printf("spec: workbook=%s tables=%d", cfg.SpecWorkbook, len(tables))
	}

	files, err := file.ListDAT(cfg.DataDir)
	if err != nil {
		log.Fatalf("discover data files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no .dat files found in %s", cfg.DataDir)
	}

	jobs, err := importer.BuildJobs(files, tables, cfg.Prefix)
	if err != nil {
		log.Fatalf("match files to tables: %v", err)
	}

	wlog, closeWarnLog, err := warnlog.New(filepath.Join(cfg.WarnDir, cfg.RunID+".csv"))
	if err != nil {
		log.Fatalf("open warning log: %v", err)
	}
	defer closeWarnLog()

	warn := func(w convert.Warning) {
		wlog.Add(w)
		metrics.RecordRows(w.Table, "bool_warnings", 1)
		if cfg.Verbose {
			log.Printf("warn: %s", w)
		}
	}

	open := func(ctx context.Context, job importer.Job) (storage.Repository, error) {
		repo, err := storage.New(ctx, storage.Config{
			Kind:   cfg.DBDriver,
			DSN:    cfg.DSN,
			Schema: cfg.Schema,
			Table:  job.Table,
		})
		if err != nil {
			return nil, err
		}
		if cfg.AutoCreateTable {
			def := storage.TableDef{Schema: cfg.Schema, Table: job.Table, Fields: job.Specs}
			if err := storage.EnsureTable(ctx, cfg.DBDriver, repo, def); err != nil {
				repo.Close()
				return nil, fmt.Errorf("ensure table %s: %w", job.Table, err)
			}
		}
		return repo, nil
	}

	opts := importer.Options{
		Prefix:        cfg.Prefix,
		BatchSize:     cfg.BatchSize,
		FlushTimeout:  time.Duration(cfg.FlushTimeoutSec) * time.Second,
		ProgressEvery: cfg.ProgressEvery,
		Truncate:      cfg.Truncate,
		Encoding:      cfg.Encoding,
		Warn:          warn,
	}

	start := time.Now()
	results, runErr := importer.RunAll(context.Background(), jobs, open, opts)

	fmt.Printf("run %s: %d file(s) in %s\n", cfg.RunID, len(results), time.Since(start).Round(time.Millisecond))
	for _, r := range results {
		fmt.Println("  " + r.String())
	}
	for reason, n := range wlog.Counts() {
		fmt.Printf("  warnings: %s=%d\n", reason, n)
	}

	if runErr != nil {
		log.Fatalf("import finished with failures: %v", runErr)
	}
}

// setupMetrics installs the configured metrics backend; the nop backend
// stays in place when metrics are disabled or initialization fails.
func setupMetrics(cfg *config.Config) {
	switch cfg.MetricsBackend {
	case "prometheus":
		b, err := prompush.NewBackend("datload_"+cfg.RunID, cfg.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init prometheus backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=prometheus url=%s", cfg.PushgatewayURL)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       cfg.DatadogAddr,
			Namespace:  "datload.",
			GlobalTags: []string{"run_id:" + cfg.RunID},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%s", cfg.DatadogAddr)
		metrics.SetBackend(b)

	case "", "none":
		if cfg.Verbose {
			log.Printf("metrics: disabled")
		}
	}
}
