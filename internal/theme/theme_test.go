package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/adsaga-console/internal/storage"
)

func newLocal() (*storage.Local, *storage.MemoryStore) {
	mem := storage.NewMemoryStore()
	return storage.NewLocal(mem, storage.NewSealer("t"), "c1"), mem
}

func TestDefaultFollowsClientPreference(t *testing.T) {
	ctx := context.Background()
	local, _ := newLocal()

	assert.True(t, New(local, `"dark"`).IsDarkMode(ctx))
	assert.False(t, New(local, "light").IsDarkMode(ctx))
	assert.False(t, New(local, "").IsDarkMode(ctx))
}

func TestPersistedThemeWinsOverPreference(t *testing.T) {
	ctx := context.Background()
	local, _ := newLocal()
	require.NoError(t, local.SetItem(ctx, storage.KeyTheme, Light))

	assert.False(t, New(local, "dark").IsDarkMode(ctx))
}

func TestToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	local, _ := newLocal()
	s := New(local, "")

	dark, err := s.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, dark)
	v, _ := local.GetItem(ctx, storage.KeyTheme)
	assert.Equal(t, Dark, v)

	dark, err = s.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, dark)
	v, _ = local.GetItem(ctx, storage.KeyTheme)
	assert.Equal(t, Light, v)
}

type failingStore struct{ storage.Store }

func (failingStore) Get(context.Context, string, string) (string, error) {
	return "", storage.ErrNotFound
}

func (failingStore) Set(context.Context, string, string, string) error {
	return errors.New("down")
}

func TestSetFailureKeepsEffectiveTheme(t *testing.T) {
	s := New(storage.NewLocal(failingStore{}, storage.NewSealer("t"), "c1"), "dark")
	dark, err := s.Set(context.Background(), false)
	require.Error(t, err)
	assert.True(t, dark)
}

func TestRootClass(t *testing.T) {
	assert.Equal(t, "dark", RootClass(true))
	assert.Equal(t, "", RootClass(false))
}
