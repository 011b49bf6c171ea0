package model

import "time"

type Subscriber struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}
