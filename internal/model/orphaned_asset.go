package model

import "time"

// OrphanedAsset records a hosted asset whose deletion failed so a later sweep
// can retry it
type OrphanedAsset struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	AssetID   string `gorm:"uniqueIndex;not null"`
	Source    string
	LastError string
	Attempts  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
