// todoプラグインサービスのエントリポイント。
// ユーザーごとのToDoリストを共有シークレットで保護されたHTTP APIとして提供し、
// チャットクライアント向けのプラグインマニフェストとOpenAPI仕様を配信する。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/todoplugin/internal/config"
	"github.com/nao1215/todoplugin/internal/todo"
	"github.com/nao1215/todoplugin/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd はルートコマンドを生成する。フラグはviperに結び付け、環境変数より優先させる。
func newRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "ユーザーごとのToDoリストを提供するHTTPサービス",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("設定の読み込みに失敗: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String(config.KeyHost, "", "リッスンするホスト（環境変数 HOST）")
	flags.Int(config.KeyPort, 0, "リッスンするポート（環境変数 PORT）")
	flags.String("assets", "", "ロゴとテンプレートを置くディレクトリ（環境変数 ASSET_DIR）")
	flags.StringSlice("allowed-origin", nil, "CORSで許可するオリジン（環境変数 ALLOWED_ORIGINS）")
	flags.String(config.KeyStore, "", "ストアの種類 memory|sqlite（環境変数 TODO_STORE）")
	flags.Bool(config.KeyDebug, false, "デバッグログを出力する（環境変数 DEBUG）")

	// 未指定のフラグはviperのデフォルト値や環境変数を上書きしない
	_ = v.BindPFlag(config.KeyHost, flags.Lookup(config.KeyHost))
	_ = v.BindPFlag(config.KeyPort, flags.Lookup(config.KeyPort))
	_ = v.BindPFlag(config.KeyAssetDir, flags.Lookup("assets"))
	_ = v.BindPFlag(config.KeyAllowedOrigins, flags.Lookup("allowed-origin"))
	_ = v.BindPFlag(config.KeyStore, flags.Lookup(config.KeyStore))
	_ = v.BindPFlag(config.KeyDebug, flags.Lookup(config.KeyDebug))

	return cmd
}

// run はサーバーを起動し、SIGINTまたはSIGTERMを受け取るまで待つ。
func run(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.Debug, os.Stdout)
	if cfg.AuthKey == "" {
		log.Warn().Msg("SERVICE_AUTH_KEYが未設定のため、全ての保護されたリクエストが拒否されます")
	}

	store, err := todo.NewStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("ストアの生成に失敗: %w", err)
	}

	assets := todo.NewAssets(cfg.AssetDir)
	if err := assets.Preload(); err != nil {
		// ファイルは後から配置されてもよく、形式が不正なテンプレートもそのまま配信するため起動は続ける
		log.Warn().Err(err).Str("dir", cfg.AssetDir).Msg("静的ファイルの読み込みまたは検証に失敗しました")
	}

	server := todo.NewServer(cfg, store, assets, log)
	defer func() {
		if err := server.Close(); err != nil {
			log.Error().Err(err).Msg("ストアの解放に失敗しました")
		}
	}()

	log.Debug().
		Str("addr", cfg.Addr()).
		Str("store", cfg.Store).
		Str("asset_dir", cfg.AssetDir).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("設定を読み込みました")

	if err := server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("todoサービスが異常終了しました")
		return err
	}
	return nil
}
