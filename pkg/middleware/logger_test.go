package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// TestLogger はLoggerミドルウェアを検証する。
func TestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "2xxはinfoレベルで出力されること", status: http.StatusOK, wantLevel: "info"},
		{name: "4xxはwarnレベルで出力されること", status: http.StatusUnauthorized, wantLevel: "warn"},
		{name: "5xxはerrorレベルで出力されること", status: http.StatusInternalServerError, wantLevel: "error"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			router := gin.New()
			router.Use(RequestID())
			router.Use(Logger(zerolog.New(&buf)))
			router.GET("/todos", func(c *gin.Context) {
				c.Status(tc.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/todos", nil)
			req.Header.Set(HeaderKeyRequestID, "req-log")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("ログのパースに失敗: %v", err)
			}
			if entry["level"] != tc.wantLevel {
				t.Errorf("level = %v, want %q", entry["level"], tc.wantLevel)
			}
			if entry["method"] != http.MethodGet {
				t.Errorf("method = %v, want %q", entry["method"], http.MethodGet)
			}
			if entry["path"] != "/todos" {
				t.Errorf("path = %v, want %q", entry["path"], "/todos")
			}
			if got, ok := entry["status"].(float64); !ok || int(got) != tc.status {
				t.Errorf("status = %v, want %d", entry["status"], tc.status)
			}
			if entry["request_id"] != "req-log" {
				t.Errorf("request_id = %v, want %q", entry["request_id"], "req-log")
			}
		})
	}
}
