package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// 設定キー。cobraのフラグ名とviperのキーを共通化する。
const (
	KeyHost           = "host"
	KeyPort           = "port"
	KeyAuthKey        = "auth_key"
	KeyAssetDir       = "asset_dir"
	KeyAllowedOrigins = "allowed_origins"
	KeyStore          = "store"
	KeyDebug          = "debug"
)

// ErrInvalidPort はポート番号が範囲外の場合のエラー。
var ErrInvalidPort = errors.New("ポート番号が不正です")

// Config はサービスの実行時設定。
type Config struct {
	// Host はリッスンするホスト。
	Host string
	// Port はリッスンするポート。
	Port int
	// AuthKey はBearer認証の共有シークレット。空の場合は全リクエストを拒否する。
	AuthKey string
	// AssetDir はロゴ、マニフェスト、OpenAPIテンプレートを置くディレクトリ。
	AssetDir string
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
	// Store はストアの種類（memory または sqlite）。
	Store string
	// Debug はデバッグログを有効にするかどうか。
	Debug bool
}

// Addr はリッスンアドレスを "host:port" 形式で返す。
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// New はデフォルト値と環境変数の対応付けを済ませたviperインスタンスを生成する。
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyHost, "0.0.0.0")
	v.SetDefault(KeyPort, 5002)
	v.SetDefault(KeyAuthKey, "")
	v.SetDefault(KeyAssetDir, "assets")
	v.SetDefault(KeyStore, "memory")
	v.SetDefault(KeyDebug, false)

	// 環境変数名はキー名と一致しないものがあるため個別に対応付ける
	_ = v.BindEnv(KeyHost, "HOST")
	_ = v.BindEnv(KeyPort, "PORT")
	_ = v.BindEnv(KeyAuthKey, "SERVICE_AUTH_KEY")
	_ = v.BindEnv(KeyAssetDir, "ASSET_DIR")
	_ = v.BindEnv(KeyAllowedOrigins, "ALLOWED_ORIGINS")
	_ = v.BindEnv(KeyStore, "TODO_STORE")
	_ = v.BindEnv(KeyDebug, "DEBUG")
	return v
}

// Load はviperから設定を読み出す。
// 許可オリジンが未指定の場合は http://localhost:<port> と https://chat.openai.com を使う。
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Host:     v.GetString(KeyHost),
		Port:     v.GetInt(KeyPort),
		AuthKey:  v.GetString(KeyAuthKey),
		AssetDir: v.GetString(KeyAssetDir),
		Store:    strings.ToLower(v.GetString(KeyStore)),
		Debug:    v.GetBool(KeyDebug),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Port)
	}

	cfg.AllowedOrigins = splitOrigins(v.GetStringSlice(KeyAllowedOrigins))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{
			fmt.Sprintf("http://localhost:%d", cfg.Port),
			"https://chat.openai.com",
		}
	}
	return cfg, nil
}

// splitOrigins は環境変数由来のカンマ区切り文字列とフラグ由来の複数値をまとめて分解する。
func splitOrigins(values []string) []string {
	var origins []string
	for _, v := range values {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return origins
}
