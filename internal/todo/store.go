package todo

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownBackend は未知のストア種別が指定された場合のエラー。
var ErrUnknownBackend = errors.New("未知のストア種別です")

// ストア種別。
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Store はユーザー名をキーとしたToDoリストの保存先。
// ToDoは挿入順に並び、重複を許す。未登録のユーザーは空のリストとして扱う。
// 実装は並行呼び出しに対して安全でなければならない。
type Store interface {
	// All は全ユーザーのToDoリストを返す。
	All(ctx context.Context) (map[string][]string, error)
	// List は指定ユーザーのToDoリストを返す。未登録なら空のスライスを返す。
	List(ctx context.Context, username string) ([]string, error)
	// Add は指定ユーザーのリスト末尾にToDoを追加する。
	Add(ctx context.Context, username, todo string) error
	// Delete は指定ユーザーのリストからidx番目（0始まり）を削除する。
	// 範囲外の場合は何もせずfalseを返す。
	Delete(ctx context.Context, username string, idx int) (bool, error)
	// Close はストアが保持する資源を解放する。
	Close() error
}

// NewStore は種別に応じたストアを生成する。
func NewStore(backend string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSQLite:
		s, err := NewSQLiteStore()
		if err != nil {
			return nil, fmt.Errorf("SQLiteストアの生成に失敗: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
