// Package notifyctl は通知サービスの開発用CLIを提供する。
//
// ペイロードのローカルでのデコード・組み立て、通知サービスへの送信、
// 通知一覧の取得と既読化、開発用JWTの発行を行う。
package notifyctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/nao1215/pushnotify/pkg/logging"
)

// defaultURL は通知サービスのデフォルトの接続先。
const defaultURL = "http://localhost:8086"

// Flags は全コマンドで共有するグローバルフラグ。
type Flags struct {
	// LogLevel はログレベル。
	LogLevel string
	// Logger はBeforeで生成されるロガー。
	Logger zerolog.Logger
}

// NewApp はnotifyctlのルートコマンドを生成する。
func NewApp(version string) *cli.Command {
	flags := &Flags{Logger: zerolog.Nop()}

	app := &cli.Command{
		Name:      "notifyctl",
		Usage:     "プッシュ通知ペイロードの開発用ツール",
		UsageText: "notifyctl [global options] command [command options]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "ログレベル (debug, info, warn, error)",
				Sources:     cli.EnvVars("NOTIFYCTL_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := logging.New(c.Root().ErrWriter, flags.LogLevel, "console")
			if err != nil {
				return ctx, err
			}
			flags.Logger = logger
			return ctx, nil
		},
	}

	app = NewDecodeCmd(flags).Register(app)
	app = NewEncodeCmd(flags).Register(app)
	app = NewSendCmd(flags).Register(app)
	app = NewListCmd(flags).Register(app)
	app = NewReadCmd(flags).Register(app)
	app = NewReadAllCmd(flags).Register(app)
	app = NewTokenCmd(flags).Register(app)

	return app
}

// readPayload は引数のペイロードを返す。引数がないか "-" の場合は標準入力から読む。
func readPayload(c *cli.Command) (string, error) {
	arg := c.Args().First()
	if arg != "" && arg != "-" {
		return arg, nil
	}
	r := c.Root().Reader
	if r == nil {
		return "", errors.New("ペイロードが指定されていません")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("標準入力の読み込みに失敗: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
