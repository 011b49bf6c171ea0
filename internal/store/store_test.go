package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"bitwise74/portal-api/db"
	"bitwise74/portal-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) Repository {
	t.Helper()

	gdb, err := db.New("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	return New(gdb)
}

func strPtr(s string) *string { return &s }

func TestAccounts_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	a := &model.Account{ID: "acc1", Name: "A", Email: strPtr("a@b.com"), PasswordHash: "h", Role: model.RoleUser}
	require.NoError(t, r.Accounts().Create(ctx, a))

	got, err := r.Accounts().FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "acc1", got.ID)

	got, err = r.Accounts().FindByID(ctx, "acc1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	_, err = r.Accounts().FindByPhone(ctx, "+8801700000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccounts_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, r.Accounts().Create(ctx, &model.Account{ID: "acc1", Name: "A", Email: strPtr("a@b.com"), PasswordHash: "h"}))
	err := r.Accounts().Create(ctx, &model.Account{ID: "acc2", Name: "B", Email: strPtr("a@b.com"), PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAccounts_NullIdentifiersDoNotCollide(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, r.Accounts().Create(ctx, &model.Account{ID: "acc1", Name: "A", Phone: strPtr("01712345678"), PasswordHash: "h"}))
	require.NoError(t, r.Accounts().Create(ctx, &model.Account{ID: "acc2", Name: "B", Phone: strPtr("01812345678"), PasswordHash: "h"}))
}

func TestAccounts_UpdateClearsNullableColumns(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	now := time.Now()
	a := &model.Account{ID: "acc1", Name: "A", Email: strPtr("a@b.com"), PasswordHash: "h", VerifiedAt: &now, VerificationCode: strPtr("123456")}
	require.NoError(t, r.Accounts().Create(ctx, a))

	a.VerifiedAt = nil
	a.VerificationCode = nil
	a.Name = "B"
	require.NoError(t, r.Accounts().Update(ctx, a))

	got, err := r.Accounts().FindByID(ctx, "acc1")
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
	assert.Nil(t, got.VerifiedAt)
	assert.Nil(t, got.VerificationCode)
}

func TestAccounts_UpdateMissing(t *testing.T) {
	r := newRepo(t)

	err := r.Accounts().Update(context.Background(), &model.Account{ID: "nope", Name: "A", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccounts_ClearCodeOnlyWhenCurrent(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, r.Accounts().Create(ctx, &model.Account{ID: "acc1", Name: "A", Email: strPtr("a@b.com"), PasswordHash: "h", VerificationCode: strPtr("222222")}))

	// a stale code leaves the current one in place
	require.NoError(t, r.Accounts().ClearCode(ctx, "acc1", "111111"))
	got, err := r.Accounts().FindByID(ctx, "acc1")
	require.NoError(t, err)
	require.NotNil(t, got.VerificationCode)
	assert.Equal(t, "222222", *got.VerificationCode)

	require.NoError(t, r.Accounts().ClearCode(ctx, "acc1", "222222"))
	got, err = r.Accounts().FindByID(ctx, "acc1")
	require.NoError(t, err)
	assert.Nil(t, got.VerificationCode)
	assert.Equal(t, "A", got.Name)
}

func TestSubscribers_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, r.Subscribers().Create(ctx, "a@b.com"))
	require.NoError(t, r.Subscribers().Create(ctx, "a@b.com"))

	var n int64
	require.NoError(t, r.(*gormRepository).db.Model(&model.Subscriber{}).Where("email = ?", "a@b.com").Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, err := r.Subscribers().FindByEmail(ctx, "a@b.com")
	assert.NoError(t, err)
}

func TestPending_OlderThanAndDelete(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	now := time.Now()
	old := &model.PendingApplication{UserID: "u", CreatedAt: now.Add(-48 * time.Hour)}
	fresh := &model.PendingApplication{UserID: "u", CreatedAt: now}
	require.NoError(t, r.Pending().Create(ctx, old))
	require.NoError(t, r.Pending().Create(ctx, fresh))
	assert.NotEmpty(t, old.ID)

	got, err := r.Pending().OlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, old.ID, got[0].ID)

	deleted, err := r.Pending().Delete(ctx, old.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = r.Pending().Delete(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOrphans_RecordBumpsAttempts(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	require.NoError(t, r.Orphans().Record(ctx, "img/1", "pending_application", errors.New("first")))
	require.NoError(t, r.Orphans().Record(ctx, "img/1", "pending_application", errors.New("second")))

	list, err := r.Orphans().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Attempts)
	assert.Equal(t, "second", list[0].LastError)

	require.NoError(t, r.Orphans().Remove(ctx, "img/1"))
	list, err = r.Orphans().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	boom := errors.New("boom")
	err := r.Transaction(ctx, func(tx Repository) error {
		if err := tx.Accounts().Create(ctx, &model.Account{ID: "acc1", Name: "A", Email: strPtr("a@b.com"), PasswordHash: "h"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = r.Accounts().FindByID(ctx, "acc1")
	assert.ErrorIs(t, err, ErrNotFound)
}
