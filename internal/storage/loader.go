// This file implements the generic, batched loader that drains typed rows
// from a channel and invokes a backend's bulk-insert function per batch.
//
// There is deliberately no row-by-row insertion fallback: a failed batch is
// a file-level fatal error, and retrying row-wise would defeat the point of
// batched loading.
//
// Logging: every successful flush emits a concise progress line with running
// totals and instantaneous rows/sec since the previous flush.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn abstracts a backend's bulk insert capability; in production it is
// Repository.CopyFrom, in tests a fake that records batches.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains typed rows from in, groups them into batches of
// batchSize, and calls copyFn for each non-empty batch. flushTimeout bounds
// each copyFn call when positive. It returns the total number of rows
// reported by copyFn and the first error encountered.
//
// The function returns when the input channel is closed (after a final
// flush) or the context is canceled. It never buffers more than one batch.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	flushTimeout time.Duration,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		batch       = make([][]any, 0, batchSize)
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		fctx := ctx
		if flushTimeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, flushTimeout)
			defer cancel()
		}
		n, err := copyFn(fctx, columns, batch)
		total += n

		// Reuse the allocated slice; keep capacity to avoid churn.
		batch = batch[:0]

		if err != nil {
			log.Printf("loader: bulk insert failed inserted=%d total=%d err=%v", n, total, err)
			return err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		insertedSinceLast := total - lastTotal
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(insertedSinceLast) / sinceLast.Seconds()
		}
		log.Printf(
			"batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
			batches,
			rps,
			n,
			total,
			now.Sub(start).Truncate(time.Millisecond),
			sinceLast.Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total

		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				// Channel closed: flush remaining rows, unless the context
				// was already canceled (the producer may have failed after
				// handing over rows that must not be committed).
				if err := ctx.Err(); err != nil {
					return total, err
				}
				if err := flush(); err != nil {
					return total, err
				}
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
