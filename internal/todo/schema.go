package todo

import (
	"database/sql"
	"fmt"
)

// スキーマ定義。usersはToDoを全て削除した後もユーザーのキーを残すために持つ。
const schema = `
CREATE TABLE IF NOT EXISTS users (
    username TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS todos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL REFERENCES users(username),
    body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_todos_username
    ON todos(username, id);
`

// initSchema はSQLiteデータベースにスキーマを適用する。
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return nil
}
