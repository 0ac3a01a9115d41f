package keystore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/reqsign/httpsig"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	store := NewStatic(map[string]string{"test": "secret", "other": "value"})

	t.Run("fetch known key", func(t *testing.T) {
		key, err := store.Fetch(ctx, "test")
		require.NoError(t, err)
		assert.Equal(t, []byte("secret"), key)
	})

	t.Run("fetch unknown key", func(t *testing.T) {
		_, err := store.Fetch(ctx, "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, httpsig.ErrKeyNotFound)
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := store.Exists(ctx, "test")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Exists(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("fetched key is a copy", func(t *testing.T) {
		key, err := store.Fetch(ctx, "test")
		require.NoError(t, err)
		key[0] = 'X'

		again, err := store.Fetch(ctx, "test")
		require.NoError(t, err)
		assert.Equal(t, []byte("secret"), again)
	})

	t.Run("input map is copied", func(t *testing.T) {
		src := map[string]string{"a": "1"}
		s := NewStatic(src)
		src["b"] = "2"

		ok, err := s.Exists(ctx, "b")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("key ids are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"other", "test"}, store.KeyIDs())
	})
}

func TestFromString(t *testing.T) {
	ctx := context.Background()

	t.Run("parses entries", func(t *testing.T) {
		store, err := FromString("app_1:secret1, app_2 : secret2")
		require.NoError(t, err)

		key, err := store.Fetch(ctx, "app_1")
		require.NoError(t, err)
		assert.Equal(t, []byte("secret1"), key)

		key, err = store.Fetch(ctx, "app_2")
		require.NoError(t, err)
		assert.Equal(t, []byte("secret2"), key)
	})

	t.Run("secret may contain colons", func(t *testing.T) {
		store, err := FromString("k:a:b")
		require.NoError(t, err)

		key, err := store.Fetch(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("a:b"), key)
	})

	t.Run("empty string gives empty store", func(t *testing.T) {
		store, err := FromString("  ")
		require.NoError(t, err)
		assert.Empty(t, store.KeyIDs())
	})

	tests := []struct {
		name  string
		input string
	}{
		{"missing separator", "app_1"},
		{"empty secret", "app_1:"},
		{"empty key id", ":secret"},
		{"trailing comma", "app_1:secret,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromString(tt.input)
			assert.ErrorIs(t, err, ErrMalformedKeys)
		})
	}
}

func TestParseYAML(t *testing.T) {
	ctx := context.Background()

	t.Run("multi-line and plain values", func(t *testing.T) {
		data := []byte(`keys:
  app_1.v1: |
    -----BEGIN PUBLIC KEY-----
    AAAA
    -----END PUBLIC KEY-----
  hmac: secret
`)

		store, err := ParseYAML(data)
		require.NoError(t, err)

		key, err := store.Fetch(ctx, "app_1.v1")
		require.NoError(t, err)
		assert.Equal(t, "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n", string(key))

		key, err = store.Fetch(ctx, "hmac")
		require.NoError(t, err)
		assert.Equal(t, []byte("secret"), key)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseYAML([]byte("keys: [unterminated"))
		assert.ErrorIs(t, err, ErrMalformedKeys)
	})

	t.Run("empty value", func(t *testing.T) {
		_, err := ParseYAML([]byte("keys:\n  hmac: \"\"\n"))
		assert.ErrorIs(t, err, ErrMalformedKeys)
	})

	t.Run("marshal round trip", func(t *testing.T) {
		keys := map[string]string{
			"pem":  "-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n",
			"hmac": "secret",
		}

		data, err := Marshal(keys)
		require.NoError(t, err)

		store, err := ParseYAML(data)
		require.NoError(t, err)

		for id, want := range keys {
			got, err := store.Fetch(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, want, string(got))
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keys.yaml")
		require.NoError(t, os.WriteFile(path, []byte("keys:\n  hmac: secret\n"), 0o600))

		store, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"hmac"}, store.KeyIDs())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
