package store

import (
	"context"
	"time"

	"bitwise74/portal-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pendingStore struct {
	db *gorm.DB
}

func (s pendingStore) Create(ctx context.Context, p *model.PendingApplication) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s pendingStore) OlderThan(ctx context.Context, cutoff time.Time) ([]model.PendingApplication, error) {
	var out []model.PendingApplication

	err := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Order("created_at asc").
		Find(&out).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return out, nil
}

func (s pendingStore) Delete(ctx context.Context, id string) (bool, error) {
	r := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PendingApplication{})
	if r.Error != nil {
		return false, translate(r.Error)
	}

	return r.RowsAffected > 0, nil
}
