package store

import (
	"context"

	"bitwise74/portal-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subscriberStore struct {
	db *gorm.DB
}

func (s subscriberStore) FindByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	var sub model.Subscriber

	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&sub).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &sub, nil
}

func (s subscriberStore) Create(ctx context.Context, email string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(&model.Subscriber{Email: email}).
		Error

	return translate(err)
}
