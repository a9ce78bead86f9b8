package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGormStorage(t *testing.T) *GormStorage {
	t.Helper()
	gdb, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	st, err := NewGormStorage(gdb)
	require.NoError(t, err)
	return st
}

func TestStore_SetClear(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(ctx, nil)
	require.NoError(t, err)

	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())

	g := s.Generation()
	s.Set(ctx, "t1", models.RoleUser)
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
	assert.Equal(t, "t1", s.Token())
	assert.NotEqual(t, g, s.Generation())

	s.Set(ctx, "t2", models.RoleAdmin)
	assert.True(t, s.IsAdmin())

	s.Clear(ctx)
	assert.Equal(t, models.Session{}, s.Current())
	assert.False(t, s.IsAdmin())
}

func TestStore_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	st := newGormStorage(t)

	s, err := NewStore(ctx, st)
	require.NoError(t, err)
	s.Set(ctx, "t1", models.RoleAdmin)
	s.Set(ctx, "t2", models.RoleAdmin)

	reloaded, err := NewStore(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, models.Session{Token: "t2", Role: models.RoleAdmin}, reloaded.Current())

	reloaded.Clear(ctx)

	var count int64
	require.NoError(t, st.DB.Model(&models.LocalStorage{}).Count(&count).Error)
	assert.Zero(t, count)

	again, err := NewStore(ctx, st)
	require.NoError(t, err)
	assert.False(t, again.IsAuthenticated())
}

func TestStore_RoleWithoutTokenIsNoSession(t *testing.T) {
	ctx := context.Background()
	st := newGormStorage(t)
	require.NoError(t, st.DB.Create(&models.LocalStorage{Key: keyRole, Value: "admin"}).Error)

	s, err := NewStore(ctx, st)
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())
}

type failingStorage struct{}

func (failingStorage) Load(context.Context) (models.Session, error) { return models.Session{}, nil }
func (failingStorage) Save(context.Context, models.Session) error   { return errors.New("disk full") }
func (failingStorage) Clear(context.Context) error                  { return errors.New("disk full") }

func TestStore_StorageFailureKeepsMemoryAuthoritative(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(ctx, failingStorage{})
	require.NoError(t, err)

	s.Set(ctx, "t1", models.RoleUser)
	assert.True(t, s.IsAuthenticated())

	s.Clear(ctx)
	assert.False(t, s.IsAuthenticated())
}

func TestStore_OnChangeSeesEverySetAndClear(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(ctx, nil)
	require.NoError(t, err)

	var seen []models.Session
	s.OnChange(func(next models.Session) {
		// hooks may read the store back
		assert.Equal(t, next, s.Current())
		seen = append(seen, next)
	})

	s.Set(ctx, "t1", models.RoleUser)
	s.Clear(ctx)

	assert.Equal(t, []models.Session{{Token: "t1", Role: models.RoleUser}, {}}, seen)
}
