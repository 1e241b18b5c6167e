package todo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testManifest はテスト用のマニフェストテンプレート。
const testManifest = `{"api":{"url":"PLUGIN_HOSTNAME/openapi.yaml"},"logo_url":"PLUGIN_HOSTNAME/logo.png"}`

// testOpenAPI はテスト用のOpenAPIテンプレート。
const testOpenAPI = "openapi: 3.0.1\nservers:\n  - url: PLUGIN_HOSTNAME\n"

// testLogo はテスト用のロゴ画像（PNGシグネチャのみ）。
var testLogo = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// writeAssets はdirにテスト用のロゴとテンプレートを書き込む。
func writeAssets(t *testing.T, dir string) {
	t.Helper()

	files := map[string][]byte{
		logoFile:     testLogo,
		manifestFile: []byte(testManifest),
		openAPIFile:  []byte(testOpenAPI),
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}
}

// TestAssets はAssetsを検証する。
func TestAssets(t *testing.T) {
	t.Parallel()

	t.Run("マニフェストの全てのプレースホルダーがhttpsのホストに置換されること", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssets(t, dir)
		a := NewAssets(dir)

		got, err := a.Manifest("example.com:5002")
		require.NoError(t, err)
		assert.Equal(t,
			`{"api":{"url":"https://example.com:5002/openapi.yaml"},"logo_url":"https://example.com:5002/logo.png"}`,
			string(got))
	})

	t.Run("OpenAPIのプレースホルダーが置換されること", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssets(t, dir)
		a := NewAssets(dir)

		got, err := a.OpenAPI("todo.example.com")
		require.NoError(t, err)
		assert.Equal(t, "openapi: 3.0.1\nservers:\n  - url: https://todo.example.com\n", string(got))
	})

	t.Run("キャッシュ後も置換結果がホストごとに変わること", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssets(t, dir)
		a := NewAssets(dir)

		first, err := a.OpenAPI("a.example.com")
		require.NoError(t, err)
		second, err := a.OpenAPI("b.example.com")
		require.NoError(t, err)

		assert.Contains(t, string(first), "https://a.example.com")
		assert.Contains(t, string(second), "https://b.example.com")
		assert.NotContains(t, string(second), "a.example.com")
	})

	t.Run("ロゴがそのまま返ること", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssets(t, dir)
		a := NewAssets(dir)

		got, err := a.Logo()
		require.NoError(t, err)
		assert.Equal(t, testLogo, got)
	})

	t.Run("ファイルが無い場合はエラーになり後から置いたファイルは読み込まれること", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		a := NewAssets(dir)

		_, err := a.Logo()
		require.ErrorIs(t, err, os.ErrNotExist)
		require.Error(t, a.Preload())

		writeAssets(t, dir)
		got, err := a.Logo()
		require.NoError(t, err)
		assert.Equal(t, testLogo, got)
		assert.NoError(t, a.Preload())
	})

	t.Run("JSONでないマニフェストもそのまま置換して返りPreloadだけがErrInvalidTemplateを返すこと", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssets(t, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, manifestFile), []byte(`{"url": "PLUGIN_HOSTNAME",}`), 0o600))
		a := NewAssets(dir)

		got, err := a.Manifest("example.com")
		require.NoError(t, err)
		assert.Equal(t, `{"url": "https://example.com",}`, string(got))

		err = a.Preload()
		require.ErrorIs(t, err, ErrInvalidTemplate)
		assert.Contains(t, err.Error(), manifestFile)
	})

	t.Run("YAMLとして解釈できないOpenAPIもそのまま置換して返りPreloadだけがErrInvalidTemplateを返すこと", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeAssets(t, dir)
		require.NoError(t, os.WriteFile(filepath.Join(dir, openAPIFile), []byte("servers:\n\t- url: PLUGIN_HOSTNAME\n"), 0o600))
		a := NewAssets(dir)

		require.ErrorIs(t, a.Preload(), ErrInvalidTemplate)

		got, err := a.OpenAPI("example.com")
		require.NoError(t, err)
		assert.Equal(t, "servers:\n\t- url: https://example.com\n", string(got))
	})

	t.Run("同梱のassetsディレクトリが読み込めること", func(t *testing.T) {
		t.Parallel()

		a := NewAssets(filepath.Join("..", "..", "assets"))
		require.NoError(t, a.Preload())

		got, err := a.Manifest("localhost:5002")
		require.NoError(t, err)
		assert.NotContains(t, string(got), hostnamePlaceholder)
		assert.Contains(t, string(got), "https://localhost:5002/openapi.yaml")
	})
}
