package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

func TestNewStore(t *testing.T) {
	t.Run("creates directory with correct permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		sessDir := filepath.Join(tmpDir, "state")

		store, err := NewStore(sessDir)
		require.NoError(t, err)
		assert.NotNil(t, store)

		info, err := os.Stat(sessDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})

	t.Run("missing session file reads as empty session", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		assert.Empty(t, store.AccessToken())
		assert.Empty(t, store.RefreshToken())
		assert.Empty(t, store.TenantID())
		assert.Empty(t, store.StoreID())
		assert.Nil(t, store.User())
	})
}

func TestStore_Tokens(t *testing.T) {
	t.Run("stores and reads back both tokens", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		assert.Equal(t, "access-1", store.AccessToken())
		assert.Equal(t, "refresh-1", store.RefreshToken())
	})

	t.Run("session file has 0600 permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewStore(tmpDir)
		require.NoError(t, err)

		require.NoError(t, store.SetTokens("access-1", "refresh-1"))

		info, err := os.Stat(filepath.Join(tmpDir, "session.json"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("session persists across store instances", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewStore(tmpDir)
		require.NoError(t, err)
		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, store.SetTenantID("t-1"))

		reopened, err := NewStore(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, "access-1", reopened.AccessToken())
		assert.Equal(t, "t-1", reopened.TenantID())
	})

	t.Run("corrupt session file behaves as empty session", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewStore(tmpDir)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "session.json"), []byte("{broken"), 0600))
		assert.Empty(t, store.AccessToken())
	})
}

func TestStore_TenantStoreContext(t *testing.T) {
	t.Run("changing tenant clears the store selection", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetTenantID("t-1"))
		require.NoError(t, store.SetStoreID("s-1"))
		require.Equal(t, "s-1", store.StoreID())

		require.NoError(t, store.SetTenantID("t-2"))
		assert.Equal(t, "t-2", store.TenantID())
		assert.Empty(t, store.StoreID(), "new tenant must never be paired with a stale store")
	})

	t.Run("re-setting the same tenant keeps the store selection", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetTenantID("t-1"))
		require.NoError(t, store.SetStoreID("s-1"))
		require.NoError(t, store.SetTenantID("t-1"))
		assert.Equal(t, "s-1", store.StoreID())
	})

	t.Run("empty store ID clears the selection", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetTenantID("t-1"))
		require.NoError(t, store.SetStoreID("s-1"))
		require.NoError(t, store.SetStoreID(""))
		assert.Empty(t, store.StoreID())
	})
}

func TestStore_Clear(t *testing.T) {
	t.Run("removes all five values at once", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SetTokens("access-1", "refresh-1"))
		require.NoError(t, store.SetTenantID("t-1"))
		require.NoError(t, store.SetStoreID("s-1"))
		require.NoError(t, store.SetUser(&models.User{ID: "u-1", Email: "a@b.com"}))

		require.NoError(t, store.Clear())

		assert.Empty(t, store.AccessToken())
		assert.Empty(t, store.RefreshToken())
		assert.Empty(t, store.TenantID())
		assert.Empty(t, store.StoreID())
		assert.Nil(t, store.User())
	})
}
