package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// planLister is the narrow slice of domain.PlanStore the archiver needs. The
// Postgres store satisfies it implicitly.
type planLister interface {
	ListBefore(ctx context.Context, before time.Time) ([]domain.AllocationPlan, error)
}

// Archiver implements domain.PlanArchiver by querying the plan store for old
// plans, serializing them to zstd-compressed JSONL, and uploading the result.
//
// Deletion of the archived plans from the primary store is intentionally NOT
// performed here; that is a separate, explicit step to be executed after the
// archive has been verified.
type Archiver struct {
	writer domain.BlobWriter
	plans  planLister
	logger *slog.Logger
}

// NewArchiver creates a new Archiver.
func NewArchiver(writer domain.BlobWriter, plans planLister, logger *slog.Logger) *Archiver {
	return &Archiver{
		writer: writer,
		plans:  plans,
		logger: logger.With(slog.String("component", "archiver")),
	}
}

var _ domain.PlanArchiver = (*Archiver)(nil)

// ArchivePlans uploads all plans created before the cutoff as one compressed
// JSONL object keyed by the cutoff instant and returns the number of archived
// plans.
func (a *Archiver) ArchivePlans(ctx context.Context, before time.Time) (int64, error) {
	plans, err := a.plans.ListBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive plans query: %w", err)
	}
	if len(plans) == 0 {
		return 0, nil
	}

	buf, err := compressJSONL(plans)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive plans encode: %w", err)
	}

	key := archiveKey(before)
	if err := a.writer.Put(ctx, key, bytes.NewReader(buf), "application/zstd"); err != nil {
		return 0, fmt.Errorf("s3blob: archive plans upload: %w", err)
	}

	count := int64(len(plans))
	a.logger.Info("plans archived",
		slog.String("key", key),
		slog.Int64("count", count),
		slog.String("before", before.Format(time.RFC3339)),
	)
	return count, nil
}

// archiveKey builds the object key for an archive. The key carries the full
// cutoff instant so consecutive passes never write over each other; once the
// caller deletes the archived plans from the primary store, the uploaded
// object is their only copy.
//
//	archive/plans/2026-08-31T040000Z.jsonl.zst
func archiveKey(before time.Time) string {
	return fmt.Sprintf("archive/plans/%s.jsonl.zst", before.UTC().Format("2006-01-02T150405Z"))
}

// compressJSONL serialises records as newline-delimited JSON and compresses
// the whole stream with zstd.
func compressJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}

	enc := json.NewEncoder(zw)
	enc.SetEscapeHTML(false)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			zw.Close()
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zstd close: %w", err)
	}
	return buf.Bytes(), nil
}
