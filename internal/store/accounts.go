package store

import (
	"context"

	"bitwise74/portal-api/internal/model"

	"gorm.io/gorm"
)

type accountStore struct {
	db *gorm.DB
}

func (s accountStore) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.first(ctx, "email = ?", email)
}

func (s accountStore) FindByPhone(ctx context.Context, phone string) (*model.Account, error) {
	return s.first(ctx, "phone = ?", phone)
}

func (s accountStore) FindByID(ctx context.Context, id string) (*model.Account, error) {
	return s.first(ctx, "id = ?", id)
}

func (s accountStore) first(ctx context.Context, query string, arg any) (*model.Account, error) {
	var a model.Account

	err := s.db.WithContext(ctx).
		Where(query, arg).
		First(&a).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &a, nil
}

func (s accountStore) Create(ctx context.Context, a *model.Account) error {
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

// Update writes every column, nil pointers included, so clearing the code or
// the verified timestamp is persisted
func (s accountStore) Update(ctx context.Context, a *model.Account) error {
	r := s.db.WithContext(ctx).
		Model(a).
		Select("*").
		Omit("id", "created_at").
		Updates(a)
	if r.Error != nil {
		return translate(r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s accountStore) ClearCode(ctx context.Context, id, code string) error {
	return translate(s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND verification_code = ?", id, code).
		Update("verification_code", nil).
		Error)
}
