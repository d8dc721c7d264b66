package domain

import (
	"context"
	"io"
	"time"
)

// BlobWriter uploads an object to blob storage.
type BlobWriter interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

// BlobReader downloads and lists objects in blob storage.
type BlobReader interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// PlanArchiver moves old allocation plans out of the primary store into blob
// storage.
type PlanArchiver interface {
	// ArchivePlans uploads all plans created before the cutoff and returns
	// the number archived. Deletion from the primary store is a separate,
	// explicit step.
	ArchivePlans(ctx context.Context, before time.Time) (int64, error)
}
