package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

func init() {
	// 呼び出し元は「ファイル名:行番号」の短い形式で出力する
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
}

// New はzerologロガーを生成する。
// debugがtrueの場合は人が読みやすいコンソール形式で呼び出し元付きのDEBUGレベル、
// falseの場合はJSON形式のINFOレベルで出力する。wがnilの場合は標準出力に書き込む。
func New(debug bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}

	if debug {
		return zerolog.New(zerolog.ConsoleWriter{Out: w}).
			Level(zerolog.DebugLevel).
			With().
			Timestamp().
			Caller().
			Logger()
	}
	return zerolog.New(w).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}
