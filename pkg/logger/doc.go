// Package logger はサービス共通のzerologロガーを生成する。
package logger
