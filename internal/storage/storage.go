// Package storage provides the blob store used as the durable handoff
// buffer between the gateway and the processing endpoint.
package storage

import (
	"context"
	"io"
)

// BlobStore writes, deletes and addresses blobs in a single bucket.
// Keys are flat object names; URI returns the engine-readable address for a
// key.
type BlobStore interface {
	Write(ctx context.Context, key string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	URI(key string) string
}
