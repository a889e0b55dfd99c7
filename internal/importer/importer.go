// Package importer orchestrates the import of DAT export files into a
// storage backend.
//
// One Job binds one file to one destination table. Run streams the file
// through record reconstruction, type conversion, and batched bulk insert
// with a single producer and a single consumer goroutine joined by an
// unbuffered channel, so at most one batch is in flight and memory stays
// flat regardless of file size. A Job fails fast: the first malformed record
// or fatal conversion error aborts the whole file.
//
// RunAll processes jobs strictly in sequence. A failed job never stops the
// run; its error is recorded in the summary and the next file starts.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"datloader/internal/convert"
	"datloader/internal/datasource"
	"datloader/internal/datasource/file"
	"datloader/internal/metrics"
	"datloader/internal/parser/dat"
	"datloader/internal/spec"
	"datloader/internal/storage"
	"datloader/internal/transformer"
)

// Job is one file bound to one destination table.
type Job struct {
	Path  string
	Table string
	Specs []spec.FieldSpec
}

// Options tunes a Run. The zero value gets production defaults applied.
type Options struct {
	// Prefix is the literal ImportID prefix used to recognize record
	// boundaries, e.g. "ABC_".
	Prefix string

	// BatchSize is the number of rows per bulk insert. Defaults to 10000.
	BatchSize int

	// FlushTimeout bounds each bulk insert call. Defaults to 300s.
	FlushTimeout time.Duration

	// ProgressEvery emits a progress log line every N materialized rows.
	// Zero disables progress logging.
	ProgressEvery int

	// Truncate empties the destination table before loading.
	Truncate bool

	// Encoding names the source charset ("" or "utf-8" is a passthrough).
	Encoding string

	// Warn receives non-fatal conversion warnings. May be nil.
	Warn convert.WarnFunc
}

const (
	defaultBatchSize    = 10000
	defaultFlushTimeout = 300 * time.Second
)

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.FlushTimeout <= 0 {
		o.FlushTimeout = defaultFlushTimeout
	}
	return o
}

// Result summarizes one finished (or failed) Job.
type Result struct {
	Table    string
	File     string
	Rows     int64 // rows the backend reported inserted
	Checksum uint64
	Duration time.Duration
	Err      error
}

func (r Result) String() string {
	status := "ok"
	if r.Err != nil {
		status = "failed: " + r.Err.Error()
	}
	return fmt.Sprintf("table=%s file=%s rows=%d checksum=%016x duration=%s status=%s",
		r.Table, r.File, r.Rows, r.Checksum, r.Duration.Round(time.Millisecond), status)
}

// Run imports one file into repo. The returned Result is populated even on
// error so summaries always carry table and file context.
func Run(ctx context.Context, job Job, repo storage.Repository, opts Options) (Result, error) {
	opts = opts.withDefaults()
	start := time.Now()
	res := Result{Table: job.Table, File: job.Path}

	err := run(ctx, job, repo, opts, &res)
	res.Duration = time.Since(start)
	res.Err = err
	metrics.RecordStep(job.Table, "import", err, res.Duration)
	return res, err
}

func run(ctx context.Context, job Job, repo storage.Repository, opts Options, res *Result) error {
	if opts.Truncate {
		t0 := time.Now()
		err := repo.Truncate(ctx)
		metrics.RecordStep(job.Table, "truncate", err, time.Since(t0))
		if err != nil {
			return fmt.Errorf("truncate %s: %w", job.Table, err)
		}
	}

	var src datasource.Source = file.NewLocal(job.Path)
	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	hash := xxh3.New()
	decoded, err := dat.DecodeReader(io.TeeReader(rc, hash), opts.Encoding)
	if err != nil {
		return err
	}

	mat := transformer.New(job.Table, job.Specs, opts.Warn)
	mat.ProgressEvery = opts.ProgressEvery
	rd := dat.NewReader(decoded, mat.ExpectedFields(), dat.Boundary(opts.Prefix))

	rows := make(chan []any)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// rows is closed only after a clean EOF. On a read or conversion
		// error the channel stays open and the group context cancellation
		// unblocks the consumer, so no partial batch reaches the backend.
		for {
			rec, err := rd.Next()
			if err == io.EOF {
				close(rows)
				return nil
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", job.Path, err)
			}
			row, err := mat.Row(rec)
			if err != nil {
				return err
			}
			select {
			case rows <- row:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	var inserted int64
	g.Go(func() error {
		var err error
		inserted, err = storage.LoadBatches(
			gctx, mat.Columns(), rows, opts.BatchSize, opts.FlushTimeout, repo.CopyFrom)
		return err
	})

	err = g.Wait()
	metrics.RecordRows(job.Table, "read", mat.Rows())
	metrics.RecordRows(job.Table, "inserted", inserted)
	if inserted > 0 {
		batches := (inserted + int64(opts.BatchSize) - 1) / int64(opts.BatchSize)
		metrics.RecordBatches(job.Table, batches)
	}
	if err != nil {
		return err
	}

	res.Rows = inserted
	res.Checksum = hash.Sum64()
	return nil
}

// OpenRepo opens the storage backend for one job.
type OpenRepo func(ctx context.Context, job Job) (storage.Repository, error)

// RunAll imports jobs in order. Each job gets its own repository from open.
// A failed job is logged and recorded but never stops the remaining jobs;
// the joined error of all failures is returned alongside the full summary.
func RunAll(ctx context.Context, jobs []Job, open OpenRepo, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(jobs))
	var errs []error

	for _, job := range jobs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		repo, err := open(ctx, job)
		if err != nil {
			res := Result{Table: job.Table, File: job.Path, Err: err}
			log.Printf("import: %s", res)
			results = append(results, res)
			errs = append(errs, fmt.Errorf("%s: %w", job.Table, err))
			continue
		}

		res, err := Run(ctx, job, repo, opts)
		repo.Close()
		log.Printf("import: %s", res)
		results = append(results, res)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Table, err))
		}
	}
	return results, errors.Join(errs...)
}

// BuildJobs matches discovered .dat files to table specifications by file
// stem, case-insensitively. Files named with the boundary prefix
// ("ABC_Patients.dat") match their sheet with the prefix stripped. Every
// file must have a matching sheet; an unmatched file fails the build rather
// than being silently skipped.
func BuildJobs(files []string, tables []spec.TableSpec, prefix string) ([]Job, error) {
	jobs := make([]Job, 0, len(files))
	for _, path := range files {
		stem := file.Stem(path)
		ts, ok := spec.Lookup(tables, stem)
		if !ok && prefix != "" && strings.HasPrefix(stem, prefix) {
			ts, ok = spec.Lookup(tables, strings.TrimPrefix(stem, prefix))
		}
		if !ok {
			return nil, fmt.Errorf("no table specification for file %s (stem %q); known tables: %s",
				path, stem, strings.Join(tableNames(tables), ", "))
		}
		jobs = append(jobs, Job{Path: path, Table: ts.Table, Specs: ts.Fields})
	}
	return jobs, nil
}

func tableNames(tables []spec.TableSpec) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.Table
	}
	return out
}
