// Package datasource defines the abstraction over places DAT exports can be
// read from. The import pipeline only sees an io.ReadCloser; where the bytes
// come from (local disk today, possibly object storage later) is a concern
// of the concrete source.
package datasource

import (
	"context"
	"io"
)

// Source yields a readable stream of raw DAT bytes.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
