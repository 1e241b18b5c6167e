package todo

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/todoplugin/pkg/middleware"
)

// addTodoRequest はToDo追加リクエストのJSON構造。
type addTodoRequest struct {
	// Todo は追加するToDo。省略時は空文字列。
	Todo string `json:"todo"`
}

// deleteTodoRequest はToDo削除リクエストのJSON構造。
type deleteTodoRequest struct {
	// TodoIdx は削除するToDoの0始まりのインデックス。省略時は-1で、何も削除しない。
	TodoIdx int `json:"todo_idx"`
}

// successResponse はToDoの追加・削除に対する固定のレスポンス。
// 削除対象が範囲外で何も削除しなかった場合も同じ値を返す。
var successResponse = gin.H{"status": "success"}

// handleListAll は全ユーザーのToDo一覧取得を処理するハンドラを返す。
func (s *Server) handleListAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := s.store.All(c.Request.Context())
		if err != nil {
			s.storeError(c, err, "ToDo一覧の取得に失敗しました")
			return
		}
		c.JSON(http.StatusOK, all)
	}
}

// handleList はユーザーのToDo一覧取得を処理するハンドラを返す。
// 未登録のユーザーには空の配列を返す。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := s.store.List(c.Request.Context(), c.Param("username"))
		if err != nil {
			s.storeError(c, err, "ToDoの取得に失敗しました")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// handleAdd はToDo追加を処理するハンドラを返す。
func (s *Server) handleAdd() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addTodoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です: " + err.Error()})
			return
		}

		if err := s.store.Add(c.Request.Context(), c.Param("username"), req.Todo); err != nil {
			s.storeError(c, err, "ToDoの追加に失敗しました")
			return
		}
		c.JSON(http.StatusOK, successResponse)
	}
}

// handleDelete はToDo削除を処理するハンドラを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := deleteTodoRequest{TodoIdx: -1}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です: " + err.Error()})
			return
		}

		username := c.Param("username")
		deleted, err := s.store.Delete(c.Request.Context(), username, req.TodoIdx)
		if err != nil {
			s.storeError(c, err, "ToDoの削除に失敗しました")
			return
		}
		if !deleted {
			s.log.Debug().
				Str("username", username).
				Int("todo_idx", req.TodoIdx).
				Str("request_id", middleware.GetRequestID(c)).
				Msg("削除対象が範囲外のため何もしませんでした")
		}
		c.JSON(http.StatusOK, successResponse)
	}
}

// handleLogo はロゴ画像を返すハンドラを返す。
func (s *Server) handleLogo() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := s.assets.Logo()
		if err != nil {
			s.assetError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", data)
	}
}

// handleManifest はホスト名を置換したプラグインマニフェストを返すハンドラを返す。
func (s *Server) handleManifest() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := s.assets.Manifest(c.Request.Host)
		if err != nil {
			s.assetError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/json; charset=utf-8", data)
	}
}

// handleOpenAPI はホスト名を置換したOpenAPI仕様を返すハンドラを返す。
func (s *Server) handleOpenAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := s.assets.OpenAPI(c.Request.Host)
		if err != nil {
			s.assetError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/yaml; charset=utf-8", data)
	}
}

// storeError はストアのエラーをログに出力し500を返す。
func (s *Server) storeError(c *gin.Context, err error, msg string) {
	s.log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// assetError は静的ファイルの読み込みエラーをログに出力し500を返す。
func (s *Server) assetError(c *gin.Context, err error) {
	s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("静的ファイルの配信に失敗しました")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "ファイルの読み込みに失敗しました"})
}
