package history

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// PGStore is the postgres implementation of Store on top of bun.
type PGStore struct {
	db    *bun.DB
	owned bool
}

var _ Store = (*PGStore)(nil)

// NewPGStore creates a postgres-backed store. The *bun.DB stays owned
// by the caller; Close does not close it.
func NewPGStore(db *bun.DB) *PGStore {
	return &PGStore{db: db}
}

// NewPGStoreOwned creates a postgres-backed store that takes ownership
// of the connection; Close closes it.
func NewPGStoreOwned(db *bun.DB) *PGStore {
	return &PGStore{db: db, owned: true}
}

func (s *PGStore) Append(ctx context.Context, sample Sample) error {
	dao := toSampleDao(sample)
	if _, err := s.db.NewInsert().Model(dao).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

func (s *PGStore) Recent(ctx context.Context, network string, limit int) ([]Sample, error) {
	if limit <= 0 {
		return nil, nil
	}

	var daos []SampleDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("network = ?", network).
		Order("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent samples: %w", err)
	}

	samples := make([]Sample, len(daos))
	for i := range daos {
		samples[i] = toSample(&daos[i])
	}
	return samples, nil
}

func (s *PGStore) Since(ctx context.Context, network string, since time.Time) ([]Sample, error) {
	var daos []SampleDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("network = ?", network).
		Where("timestamp >= ?", since).
		Order("timestamp ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}

	samples := make([]Sample, len(daos))
	for i := range daos {
		samples[i] = toSample(&daos[i])
	}
	return samples, nil
}

func (s *PGStore) Clear(ctx context.Context, network string) error {
	q := s.db.NewDelete().Model((*SampleDao)(nil))
	if network == "" {
		q = q.Where("1=1")
	} else {
		q = q.Where("network = ?", network)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear samples: %w", err)
	}
	return nil
}

func (s *PGStore) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}
