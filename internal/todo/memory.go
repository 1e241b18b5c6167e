package todo

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore はマップで保持するStore実装。
// 単一のRWMutexで全ユーザーへのアクセスを直列化する。
type MemoryStore struct {
	mu    sync.RWMutex
	todos map[string][]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore は空のMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{todos: make(map[string][]string)}
}

// All は全ユーザーのToDoリストのコピーを返す。
func (s *MemoryStore) All(_ context.Context) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make(map[string][]string, len(s.todos))
	for user, list := range s.todos {
		all[user] = cloneList(list)
	}
	return all, nil
}

// List は指定ユーザーのToDoリストのコピーを返す。
func (s *MemoryStore) List(_ context.Context, username string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneList(s.todos[username]), nil
}

// Add は指定ユーザーのリスト末尾にToDoを追加する。リストが無ければ作成する。
func (s *MemoryStore) Add(_ context.Context, username, todo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.todos[username] = append(s.todos[username], todo)
	return nil
}

// Delete は指定ユーザーのリストからidx番目を削除する。
// リストが空になってもユーザーのキーは残す。
func (s *MemoryStore) Delete(_ context.Context, username string, idx int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.todos[username]
	if idx < 0 || idx >= len(list) {
		return false, nil
	}
	s.todos[username] = slices.Delete(list, idx, idx+1)
	return true, nil
}

// Close は何もしない。
func (s *MemoryStore) Close() error {
	return nil
}

// cloneList はnilを空スライスに正規化したコピーを返す。
func cloneList(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
