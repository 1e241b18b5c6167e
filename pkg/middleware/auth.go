package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// BearerAuth は共有シークレットを検証するGinミドルウェアを返す。
// Authorizationヘッダーが "Bearer <secret>" と完全一致しない場合は
// 401 {"error": "Unauthorized"} を返し、後続のハンドラを実行しない。
// secretが空の場合はどのリクエストも通さない。
// publicPathsに含まれるパスは検証をスキップする。
func BearerAuth(secret string, log zerolog.Logger, publicPaths ...string) gin.HandlerFunc {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}
	expected := []byte("Bearer " + secret)

	return func(c *gin.Context) {
		if _, ok := public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		matched := secret != "" && subtle.ConstantTimeCompare([]byte(header), expected) == 1

		// シークレットが漏れないようヘッダーの値そのものは出力しない
		log.Debug().
			Str("path", c.Request.URL.Path).
			Bool("header_present", header != "").
			Bool("matched", matched).
			Msg("認証ヘッダーを検証しました")

		if !matched {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}
		c.Next()
	}
}
