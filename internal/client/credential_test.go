package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/stretchr/testify/require"
)

func TestFileCredentialStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forum", "credentials.json")
	store := NewFileCredentialStore(path)

	t.Log("=== Test 1: nothing stored yet ===")
	credentials, err := store.Get()
	require.NoError(t, err)
	require.Nil(t, credentials)

	t.Log("=== Test 2: set then get ===")
	require.NoError(t, store.Set(model.Credentials{UserId: 7, AccessToken: "token-7"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	credentials, err = store.Get()
	require.NoError(t, err)
	require.NotNil(t, credentials)
	require.Equal(t, int64(7), credentials.UserId)
	require.Equal(t, "token-7", credentials.AccessToken)

	t.Log("=== Test 3: clear twice is fine ===")
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	credentials, err = store.Get()
	require.NoError(t, err)
	require.Nil(t, credentials)
}

func TestMemoryCredentialStoreReturnsCopies(t *testing.T) {
	store := NewMemoryCredentialStore()
	require.NoError(t, store.Set(model.Credentials{UserId: 1, AccessToken: "a"}))

	first, err := store.Get()
	require.NoError(t, err)
	first.AccessToken = "changed"

	second, err := store.Get()
	require.NoError(t, err)
	require.Equal(t, "a", second.AccessToken)
}
