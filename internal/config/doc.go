// Package config はtodoプラグインサービスの設定を読み込む。
//
// 設定値はコマンドラインフラグ、環境変数、デフォルト値の順に優先される。
// 起動時に一度だけ読み込み、以降は変更しない。
package config
