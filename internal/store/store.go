// Package store wraps gorm queries behind small interfaces so the services
// can be driven by any relational backend gorm supports
package store

import (
	"context"
	"errors"
	"time"

	"bitwise74/portal-api/internal/model"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByPhone(ctx context.Context, phone string) (*model.Account, error)
	FindByID(ctx context.Context, id string) (*model.Account, error)
	Create(ctx context.Context, a *model.Account) error
	Update(ctx context.Context, a *model.Account) error
	// ClearCode drops code from the account only while it is still the
	// current one, a newer code written in the meantime is left alone
	ClearCode(ctx context.Context, id, code string) error
}

type SubscriberStore interface {
	FindByEmail(ctx context.Context, email string) (*model.Subscriber, error)
	// Create is a no-op when the email is already subscribed
	Create(ctx context.Context, email string) error
}

type PendingStore interface {
	Create(ctx context.Context, p *model.PendingApplication) error
	OlderThan(ctx context.Context, cutoff time.Time) ([]model.PendingApplication, error)
	// Delete reports whether a row was actually removed
	Delete(ctx context.Context, id string) (bool, error)
}

type OrphanStore interface {
	Record(ctx context.Context, assetID, source string, cause error) error
	List(ctx context.Context) ([]model.OrphanedAsset, error)
	Remove(ctx context.Context, assetID string) error
}

// Repository groups every store and opens transactional scopes over them
type Repository interface {
	Accounts() AccountStore
	Subscribers() SubscriberStore
	Pending() PendingStore
	Orphans() OrphanStore
	// Transaction runs fn against stores bound to one transaction. The
	// transaction is rolled back if fn returns an error
	Transaction(ctx context.Context, fn func(r Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Accounts() AccountStore       { return accountStore{db: r.db} }
func (r *gormRepository) Subscribers() SubscriberStore { return subscriberStore{db: r.db} }
func (r *gormRepository) Pending() PendingStore        { return pendingStore{db: r.db} }
func (r *gormRepository) Orphans() OrphanStore         { return orphanStore{db: r.db} }

func (r *gormRepository) Transaction(ctx context.Context, fn func(r Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}

	return err
}
