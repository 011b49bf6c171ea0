package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bitwise74/portal-api/db"
	"bitwise74/portal-api/internal/model"
	"bitwise74/portal-api/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu         sync.Mutex
	codes      map[string][]string
	welcomed   []string
	verifyErr  error
	welcomeErr error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{codes: map[string][]string{}}
}

func (m *fakeMailer) SendVerificationEmail(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.verifyErr != nil {
		return m.verifyErr
	}
	m.codes[to] = append(m.codes[to], code)
	return nil
}

func (m *fakeMailer) SendRegistrationEmail(to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.welcomeErr != nil {
		return m.welcomeErr
	}
	m.welcomed = append(m.welcomed, to)
	return nil
}

func (m *fakeMailer) lastCode(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.codes[to]
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

type fakeAssets struct {
	mu        sync.Mutex
	fail      map[string]bool
	destroyed []string
}

func (f *fakeAssets) Destroy(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail[id] {
		return errors.New("asset host unavailable")
	}
	f.destroyed = append(f.destroyed, id)
	return nil
}

// seqCodes hands out predictable codes
type seqCodes struct {
	codes []string
	i     int
	err   error
}

func (s *seqCodes) Generate() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	c := s.codes[s.i%len(s.codes)]
	s.i++
	return c, nil
}

func newTestRepo(t *testing.T) (store.Repository, *gorm.DB) {
	t.Helper()

	gdb, err := db.New("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	return store.New(gdb), gdb
}

func countRows(t *testing.T, gdb *gorm.DB, m any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gdb.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

func mustAccount(t *testing.T, r store.Repository, id string) *model.Account {
	t.Helper()

	a, err := r.Accounts().FindByID(context.Background(), id)
	require.NoError(t, err)
	return a
}
