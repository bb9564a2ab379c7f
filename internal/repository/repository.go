package repository

import (
	"context"
	"time"

	"eventtrader/internal/models"
)

// EventStore owns EventRecord persistence. All other pipeline components are
// stateless over it.
//
// Duplicate policy: pure insert. Commit is an atomic insert-or-ignore keyed by
// fingerprint; a second commit with the same fingerprint leaves the first
// record untouched and reports inserted=false. Exists is a point-in-time
// pre-check only — Commit is the final arbiter of uniqueness, so two items
// with the same fingerprint classified concurrently within one cycle still
// yield exactly one record.
type EventStore interface {
	Exists(ctx context.Context, fingerprint string) (bool, error)
	Commit(ctx context.Context, record *models.EventRecord) (inserted bool, err error)

	ListRecent(ctx context.Context, limit int) ([]models.EventRecord, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (*models.EventRecord, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
