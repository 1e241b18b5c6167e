// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// 共有シークレットによるBearer認証、リクエストIDの付与、zerologによる
// リクエストログ、パニックリカバリ、CORS設定を含む。
package middleware
