package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore はインメモリSQLiteに保持するStore実装。
// 接続を1本に固定するため、全ての操作はデータベース側で直列化される。
// データベースはプロセス終了とともに消える。
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore はインメモリSQLiteデータベースを開き、スキーマを適用する。
func NewSQLiteStore() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	// :memory: は接続ごとに別のデータベースになるため1本に固定する
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// All は全ユーザーのToDoリストを返す。ToDoが無いユーザーは空のリストになる。
func (s *SQLiteStore) All(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.username, t.body
		FROM users u
		LEFT JOIN todos t ON t.username = u.username
		ORDER BY u.username, t.id`)
	if err != nil {
		return nil, fmt.Errorf("ToDo一覧の取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	all := make(map[string][]string)
	for rows.Next() {
		var (
			username string
			body     sql.NullString
		)
		if err := rows.Scan(&username, &body); err != nil {
			return nil, fmt.Errorf("ToDo行の読み取りに失敗: %w", err)
		}
		if _, ok := all[username]; !ok {
			all[username] = []string{}
		}
		if body.Valid {
			all[username] = append(all[username], body.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ToDo一覧の走査に失敗: %w", err)
	}
	return all, nil
}

// List は指定ユーザーのToDoリストを挿入順に返す。
func (s *SQLiteStore) List(ctx context.Context, username string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT body FROM todos WHERE username = ? ORDER BY id", username)
	if err != nil {
		return nil, fmt.Errorf("ToDoの取得に失敗: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := []string{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("ToDo行の読み取りに失敗: %w", err)
		}
		list = append(list, body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ToDoの走査に失敗: %w", err)
	}
	return list, nil
}

// Add は指定ユーザーのリスト末尾にToDoを追加する。
func (s *SQLiteStore) Add(ctx context.Context, username, todo string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO users (username) VALUES (?)", username); err != nil {
		return fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO todos (username, body) VALUES (?, ?)", username, todo); err != nil {
		return fmt.Errorf("ToDoの追加に失敗: %w", err)
	}
	return tx.Commit()
}

// Delete は指定ユーザーのリストからidx番目を削除する。
func (s *SQLiteStore) Delete(ctx context.Context, username string, idx int) (bool, error) {
	if idx < 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var id int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM todos WHERE username = ? ORDER BY id LIMIT 1 OFFSET ?",
		username, idx).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("削除対象の検索に失敗: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("ToDoの削除に失敗: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("コミットに失敗: %w", err)
	}
	return true, nil
}

// Close はデータベース接続を閉じる。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
