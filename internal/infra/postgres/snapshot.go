package postgres

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type txKey struct{}

// Snapshots implements domain.SnapshotRunner with a read-only repeatable-read
// transaction, so a count, its page and the page enrichment all read the
// same data.
type Snapshots struct {
	db *gorm.DB
}

// NewSnapshots creates a snapshot runner over db.
func NewSnapshots(db *gorm.DB) *Snapshots {
	return &Snapshots{db: db}
}

// ReadSnapshot runs fn inside a snapshot. Nested calls join the outer one.
func (s *Snapshots) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}

// conn returns the snapshot transaction carried by ctx, or db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}

	return db.WithContext(ctx)
}
