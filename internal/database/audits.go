package database

import (
	"context"
	"errors"

	"github.com/ismywebok/webaudit/internal/models"
	"gorm.io/gorm"
)

// AuditStore is the gorm-backed audit repository. Inserts are append-only;
// existing rows are never updated.
type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Insert(ctx context.Context, audit *models.Audit) error {
	return s.db.WithContext(ctx).Create(audit).Error
}

// LatestByURL returns the newest audit whose url matches exactly, or
// (nil, nil) when none exists.
func (s *AuditStore) LatestByURL(ctx context.Context, url string) (*models.Audit, error) {
	var audit models.Audit
	err := s.db.WithContext(ctx).
		Where("url = ?", url).
		Order("created_at DESC").
		First(&audit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// RecentByURL returns up to limit audits for the exact url, newest first.
func (s *AuditStore) RecentByURL(ctx context.Context, url string, limit int) ([]models.Audit, error) {
	var audits []models.Audit
	err := s.db.WithContext(ctx).
		Where("url = ?", url).
		Order("created_at DESC").
		Limit(limit).
		Find(&audits).Error
	if err != nil {
		return nil, err
	}
	return audits, nil
}
