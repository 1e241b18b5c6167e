package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderKeyRequestID はリクエストIDを伝播するためのHTTPヘッダーキー。
const HeaderKeyRequestID = "X-Request-ID"

// contextKeyRequestID はGinコンテキストにリクエストIDを格納するためのキー。
const contextKeyRequestID = "request_id"

// RequestID はリクエストごとに一意なIDを付与するGinミドルウェアを返す。
// クライアントがX-Request-IDを指定した場合はその値を引き継ぐ。
// IDはレスポンスヘッダーにも設定する。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderKeyRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(HeaderKeyRequestID, id)
		c.Next()
	}
}

// GetRequestID はGinコンテキストからリクエストIDを取得する。
// RequestIDミドルウェアが適用されていない場合は空文字列を返す。
func GetRequestID(c *gin.Context) string {
	v, _ := c.Get(contextKeyRequestID)
	if id, ok := v.(string); ok {
		return id
	}
	return ""
}
