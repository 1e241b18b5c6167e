// Package todo はユーザーごとのToDoリストを提供するHTTPサービスの内部実装を提供する。
//
// 共有シークレットによるBearer認証で保護されたToDo APIと、
// プラグインのロゴ、マニフェスト、OpenAPI仕様を配信する公開エンドポイントを持つ。
// ToDoはプロセスの生存期間だけ保持され、再起動すると消える。
package todo
