package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad はLoad関数を検証する。
// t.Setenvを使うためt.Parallelは使わない。
func TestLoad(t *testing.T) {
	t.Run("環境変数が無い場合デフォルト値が使われること", func(t *testing.T) {
		for _, k := range []string{"HOST", "PORT", "SERVICE_AUTH_KEY", "ASSET_DIR", "ALLOWED_ORIGINS", "TODO_STORE", "DEBUG"} {
			t.Setenv(k, "")
		}

		cfg, err := Load(New())
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Host)
		assert.Equal(t, 5002, cfg.Port)
		assert.Empty(t, cfg.AuthKey)
		assert.Equal(t, "assets", cfg.AssetDir)
		assert.Equal(t, "memory", cfg.Store)
		assert.False(t, cfg.Debug)
		assert.Equal(t, []string{"http://localhost:5002", "https://chat.openai.com"}, cfg.AllowedOrigins)
		assert.Equal(t, "0.0.0.0:5002", cfg.Addr())
	})

	t.Run("環境変数の値が反映されること", func(t *testing.T) {
		t.Setenv("HOST", "127.0.0.1")
		t.Setenv("PORT", "8080")
		t.Setenv("SERVICE_AUTH_KEY", "s1")
		t.Setenv("ASSET_DIR", "/srv/assets")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
		t.Setenv("TODO_STORE", "SQLite")
		t.Setenv("DEBUG", "true")

		cfg, err := Load(New())
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
		assert.Equal(t, "s1", cfg.AuthKey)
		assert.Equal(t, "/srv/assets", cfg.AssetDir)
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
		assert.Equal(t, "sqlite", cfg.Store)
		assert.True(t, cfg.Debug)
	})

	t.Run("明示的に設定した値が環境変数より優先されること", func(t *testing.T) {
		t.Setenv("PORT", "8080")

		v := New()
		v.Set(KeyPort, 9090)
		cfg, err := Load(v)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "http://localhost:9090", cfg.AllowedOrigins[0])
	})

	t.Run("範囲外のポート番号でエラーになること", func(t *testing.T) {
		t.Setenv("PORT", "70000")

		_, err := Load(New())
		require.ErrorIs(t, err, ErrInvalidPort)
	})
}
