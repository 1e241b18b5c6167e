package todo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nao1215/todoplugin/internal/config"
	"github.com/nao1215/todoplugin/pkg/middleware"
)

// 公開エンドポイントのパス。Bearer認証の対象外。
const (
	pathLogo     = "/logo.png"
	pathManifest = "/.well-known/ai-plugin.json"
	pathOpenAPI  = "/openapi.yaml"
	pathHealth   = "/health"
)

// shutdownTimeout はシャットダウン時に処理中のリクエストを待つ上限。
const shutdownTimeout = 10 * time.Second

// Server はtodoプラグインサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// addr はサーバーのリッスンアドレス。
	addr string
	// authKey はBearer認証の共有シークレット。
	authKey string
	// allowedOrigins はCORSで許可するオリジン。
	allowedOrigins []string
	// store はToDoの保存先。
	store Store
	// assets はロゴとテンプレートの読み込み元。
	assets *Assets
	// log はサーバーのロガー。
	log zerolog.Logger
}

// NewServer は新しいtodoサーバーを生成する。
// storeの所有権はServerに移り、Closeで解放される。
func NewServer(cfg config.Config, store Store, assets *Assets, log zerolog.Logger) *Server {
	s := &Server{
		router:         gin.New(),
		addr:           cfg.Addr(),
		authKey:        cfg.AuthKey,
		allowedOrigins: cfg.AllowedOrigins,
		store:          store,
		assets:         assets,
		log:            log,
	}
	s.setupRoutes()
	return s
}

// Handler はサーバーのHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるまでリクエストを処理する。
// キャンセル後は処理中のリクエストの完了を待ってから戻る。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("todoサービスを起動します")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
	}
	s.log.Info().Msg("todoサービスを停止しました")
	return nil
}

// Close はストアを解放する。
func (s *Server) Close() error {
	return s.store.Close()
}

// setupRoutes はミドルウェアとAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.Logger(s.log))
	s.router.Use(middleware.CORS(s.allowedOrigins))
	s.router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{".png"})))
	// 未定義のパスも含め全てのリクエストに認証を適用する
	s.router.Use(middleware.BearerAuth(s.authKey, s.log, pathLogo, pathManifest, pathOpenAPI, pathHealth))

	todos := s.router.Group("/todos")
	{
		// 全ユーザーのToDo一覧
		todos.GET("", s.handleListAll())
		// ユーザーのToDo一覧
		todos.GET("/:username", s.handleList())
		// ToDo追加
		todos.POST("/:username", s.handleAdd())
		// ToDo削除
		todos.DELETE("/:username", s.handleDelete())
	}

	// プラグインの公開情報（認証不要）
	s.router.GET(pathLogo, s.handleLogo())
	s.router.GET(pathManifest, s.handleManifest())
	s.router.GET(pathOpenAPI, s.handleOpenAPI())

	// ヘルスチェック
	s.router.GET(pathHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "todo"})
	})
}
