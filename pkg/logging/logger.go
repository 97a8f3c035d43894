// Package logging はzerologを使った構造化ロガーの生成を提供する。
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New はレベルと出力形式を指定してロガーを生成する。
// levelには debug, info, warn, error を指定する。
// formatが "console" の場合は人間向けの形式、それ以外はJSONで出力する。
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("ログレベルの解析に失敗: %w", err)
	}
	if w == nil {
		w = os.Stdout
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(lvl), nil
}

// Component はコンポーネント識別子を付与した子ロガーを返す。
func Component(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str("cmp", name).Logger()
}
