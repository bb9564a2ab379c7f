package gormrepository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventtrader/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Exists(ctx context.Context, fingerprint string) (bool, error) {
	if s == nil || s.db == nil || fingerprint == "" {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.EventRecord{}).
		Where("fingerprint = ?", fingerprint).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Commit inserts the record, ignoring the write when the fingerprint is
// already present. ON CONFLICT DO NOTHING makes the check-and-insert atomic,
// so it stays correct even with multiple concurrent writers.
func (s *Store) Commit(ctx context.Context, record *models.EventRecord) (bool, error) {
	if s == nil || s.db == nil || record == nil {
		return false, nil
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fingerprint"}},
			DoNothing: true,
		}).
		Create(record)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]models.EventRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var items []models.EventRecord
	err := s.db.WithContext(ctx).
		Model(&models.EventRecord{}).
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetByFingerprint(ctx context.Context, fingerprint string) (*models.EventRecord, error) {
	if s == nil || s.db == nil || fingerprint == "" {
		return nil, nil
	}
	var item models.EventRecord
	err := s.db.WithContext(ctx).
		Where("fingerprint = ?", fingerprint).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CountSince(ctx context.Context, since time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	query := s.db.WithContext(ctx).Model(&models.EventRecord{})
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	err := query.Count(&count).Error
	return count, err
}

func (s *Store) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil || before.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.EventRecord{})
	return res.RowsAffected, res.Error
}
