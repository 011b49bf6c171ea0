package model

import "time"

// PendingApplication is a training-center application that was started but not
// finished yet. Rows older than the retention window are swept together with
// the image they own.
type PendingApplication struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	UserID      string `gorm:"index;not null" json:"user_id"`
	StudentName string `json:"student_name"`
	Course      string `json:"course"`
	Image       string `json:"image"`
	// Key of the hosted image, empty if none was uploaded
	ImageID   string    `json:"image_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
