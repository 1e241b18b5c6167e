// Package todoclient はtodoプラグインサービスのHTTP APIを呼び出すクライアントを提供する。
//
// 共有シークレットをBearerトークンとして付与し、ToDoの取得・追加・削除と
// プラグインマニフェスト、OpenAPI仕様の取得を行う。
package todoclient
