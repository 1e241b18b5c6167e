package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// 配信するファイル名。
const (
	logoFile     = "logo.png"
	manifestFile = "ai-plugin.json"
	openAPIFile  = "openapi.yaml"
)

// hostnamePlaceholder はテンプレート中でリクエストホストに置換される文字列。
const hostnamePlaceholder = "PLUGIN_HOSTNAME"

// ErrInvalidTemplate はテンプレートの形式が不正な場合のエラー。
var ErrInvalidTemplate = errors.New("テンプレートの形式が不正です")

// Assets はロゴとテンプレートファイルを読み込む。
// 読み込みに成功した内容はキャッシュし、失敗は次回のリクエストで再試行する。
type Assets struct {
	dir string

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewAssets はdirを起点にファイルを読み込むAssetsを生成する。
func NewAssets(dir string) *Assets {
	return &Assets{dir: dir, cache: make(map[string][]byte)}
}

// Preload は全てのファイルを読み込んでキャッシュし、テンプレートの形式を検証する。
// 読み込めなかったファイルと形式が不正なテンプレートのエラーをまとめて返す。
// 形式の検証は起動時の警告用で、不正なテンプレートもキャッシュされそのまま配信される。
func (a *Assets) Preload() error {
	var errs []error
	for _, name := range []string{logoFile, manifestFile, openAPIFile} {
		data, err := a.load(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := validate(name, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Logo はロゴ画像を返す。
func (a *Assets) Logo() ([]byte, error) {
	return a.load(logoFile)
}

// Manifest はホスト名を置換したプラグインマニフェストを返す。
func (a *Assets) Manifest(host string) ([]byte, error) {
	return a.render(manifestFile, host)
}

// OpenAPI はホスト名を置換したOpenAPI仕様を返す。
func (a *Assets) OpenAPI(host string) ([]byte, error) {
	return a.render(openAPIFile, host)
}

// render はテンプレート中の全てのプレースホルダーを https://<host> に置換する。
func (a *Assets) render(name, host string) ([]byte, error) {
	tmpl, err := a.load(name)
	if err != nil {
		return nil, err
	}
	return bytes.ReplaceAll(tmpl, []byte(hostnamePlaceholder), []byte("https://"+host)), nil
}

// load はファイルを読み込んでキャッシュする。内容には手を加えない。
func (a *Assets) load(name string) ([]byte, error) {
	a.mu.RLock()
	data, ok := a.cache[name]
	a.mu.RUnlock()
	if ok {
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(a.dir, name))
	if err != nil {
		return nil, fmt.Errorf("%sの読み込みに失敗: %w", name, err)
	}

	a.mu.Lock()
	a.cache[name] = data
	a.mu.Unlock()
	return data, nil
}

// validate はテンプレートがJSONまたはYAMLとして解釈できることを確認する。
// プレースホルダーは文字列値の中にある前提で、置換前の内容を検証する。
func validate(name string, data []byte) error {
	switch name {
	case manifestFile:
		if !json.Valid(data) {
			return fmt.Errorf("%w: %s はJSONではありません", ErrInvalidTemplate, name)
		}
	case openAPIFile:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, name, err)
		}
	}
	return nil
}
