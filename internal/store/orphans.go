package store

import (
	"context"
	"time"

	"bitwise74/portal-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orphanStore struct {
	db *gorm.DB
}

// Record inserts the asset or, if it is already known, bumps its attempt
// counter and last error
func (s orphanStore) Record(ctx context.Context, assetID, source string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "asset_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"attempts":   gorm.Expr("orphaned_assets.attempts + 1"),
				"last_error": msg,
				"updated_at": time.Now(),
			}),
		}).
		Create(&model.OrphanedAsset{
			AssetID:   assetID,
			Source:    source,
			LastError: msg,
			Attempts:  1,
		}).
		Error

	return translate(err)
}

func (s orphanStore) List(ctx context.Context) ([]model.OrphanedAsset, error) {
	var out []model.OrphanedAsset

	if err := s.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, translate(err)
	}

	return out, nil
}

func (s orphanStore) Remove(ctx context.Context, assetID string) error {
	return translate(s.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Delete(&model.OrphanedAsset{}).
		Error)
}
