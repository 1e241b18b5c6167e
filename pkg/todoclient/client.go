package todoclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized はサーバーが401を返した場合のエラー。
var ErrUnauthorized = errors.New("認証に失敗しました")

// Client はtodoプラグインサービスのHTTPクライアント。
type Client struct {
	// rest は内部で使用するrestyクライアント。
	rest *resty.Client
}

// apiError はサーバーが返すエラーレスポンスの構造。
type apiError struct {
	Error string `json:"error"`
}

// statusResponse はToDoの追加・削除のレスポンスの構造。
type statusResponse struct {
	Status string `json:"status"`
}

// New は新しいクライアントを生成する。
// baseURLには接続先のベースURL（例: "http://localhost:5002"）、tokenには共有シークレットを指定する。
func New(baseURL, token string) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	return &Client{rest: rest}
}

// All は全ユーザーのToDoリストを取得する。
func (c *Client) All(ctx context.Context) (map[string][]string, error) {
	var all map[string][]string
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// List は指定ユーザーのToDoリストを取得する。
func (c *Client) List(ctx context.Context, username string) ([]string, error) {
	list := []string{}
	if err := c.do(ctx, http.MethodGet, userPath(username), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Add は指定ユーザーのリストにToDoを追加する。
func (c *Client) Add(ctx context.Context, username, todo string) error {
	var res statusResponse
	if err := c.do(ctx, http.MethodPost, userPath(username), map[string]string{"todo": todo}, &res); err != nil {
		return err
	}
	return checkStatus(res)
}

// Delete は指定ユーザーのリストからidx番目のToDoを削除する。
// サーバーは範囲外のインデックスでも成功を返すため、削除されたかどうかは区別できない。
func (c *Client) Delete(ctx context.Context, username string, idx int) error {
	var res statusResponse
	if err := c.do(ctx, http.MethodDelete, userPath(username), map[string]int{"todo_idx": idx}, &res); err != nil {
		return err
	}
	return checkStatus(res)
}

// Manifest はプラグインマニフェストを取得する。
func (c *Client) Manifest(ctx context.Context) (string, error) {
	return c.text(ctx, "/.well-known/ai-plugin.json")
}

// OpenAPI はOpenAPI仕様を取得する。
func (c *Client) OpenAPI(ctx context.Context) (string, error) {
	return c.text(ctx, "/openapi.yaml")
}

// do はJSON形式のリクエストを実行する共通処理。
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req := c.rest.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiError{})
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	return responseError(resp)
}

// text はレスポンスボディを文字列として取得する。
func (c *Client) text(ctx context.Context, path string) (string, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Get(path)
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	if err := responseError(resp); err != nil {
		return "", err
	}
	return resp.String(), nil
}

// responseError はエラーステータスをerrorに変換する。
func responseError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	msg := resp.String()
	if e, ok := resp.Error().(*apiError); ok && e.Error != "" {
		msg = e.Error
	}
	return fmt.Errorf("HTTPエラー: status=%d, error=%s", resp.StatusCode(), msg)
}

// checkStatus はレスポンスのstatusがsuccessであることを確認する。
func checkStatus(res statusResponse) error {
	if res.Status != "success" {
		return fmt.Errorf("予期しないレスポンス: status=%q", res.Status)
	}
	return nil
}

// userPath はユーザー名をエスケープしたパスを返す。
func userPath(username string) string {
	return "/todos/" + url.PathEscape(username)
}
