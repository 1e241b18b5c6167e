package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// プラグインのルートが受け付けるメソッドとヘッダー。
// /todos はGET・POST・DELETEのみで、Bearerトークンの送信にAuthorizationを使う。
const (
	pluginAllowMethods = "GET, POST, DELETE, OPTIONS"
	pluginAllowHeaders = "Authorization, Content-Type"
	preflightMaxAge    = "86400"
)

// CORS はチャットクライアントがブラウザからプラグインを呼び出せるようにするミドルウェアを返す。
//
// チャットクライアントはマニフェストとOpenAPIを取得した後、/todos にBearerトークン付きで
// リクエストを送る。Authorizationヘッダーを伴うためブラウザは先にOPTIONSのプリフライトを送るが、
// プリフライトにはトークンが付かない。そのためBearerAuthより前に置き、OPTIONSは
// オリジンの許可に関係なく204で応答して後続を実行しない。許可するかどうかはブラウザが
// Access-Control-Allow-Originの有無で判断する。
//
// allowedOriginsに含まれるOriginにだけ許可ヘッダーを付ける。
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			// 応答がOriginによって変わるためキャッシュに伝える
			c.Header("Vary", "Origin")
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", pluginAllowMethods)
				h.Set("Access-Control-Allow-Headers", pluginAllowHeaders)
				h.Set("Access-Control-Max-Age", preflightMaxAge)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
