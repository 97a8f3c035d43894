package notifyctl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nao1215/pushnotify/pkg/httpclient"
)

// SendCmd はペイロードを通知サービスの内部APIへ送信するコマンド。
type SendCmd struct {
	flags *Flags

	url     string
	service string
	user    string
	timeout time.Duration
}

// NewSendCmd はsendコマンドを生成する。
func NewSendCmd(flags *Flags) *SendCmd {
	return &SendCmd{flags: flags}
}

// Register はsendコマンドをアプリケーションに追加する。
func (cmd *SendCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "send",
		Usage:     "ペイロードを通知サービスへ送信する",
		UsageText: "notifyctl send --service <name> --user <id> [--url <url>] [payload | -]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Usage:       "通知サービスのベースURL",
				Sources:     cli.EnvVars("NOTIFYCTL_URL"),
				Value:       defaultURL,
				Destination: &cmd.url,
			},
			&cli.StringFlag{
				Name:        "service",
				Aliases:     []string{"s"},
				Usage:       "宛先のサービス名",
				Required:    true,
				Destination: &cmd.service,
			},
			&cli.StringFlag{
				Name:        "user",
				Aliases:     []string{"u"},
				Usage:       "通知先のユーザーID",
				Required:    true,
				Destination: &cmd.user,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "リクエストのタイムアウト",
				Value:       10 * time.Second,
				Destination: &cmd.timeout,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *SendCmd) run(ctx context.Context, c *cli.Command) error {
	payload, err := readPayload(c)
	if err != nil {
		return err
	}

	client := httpclient.New(cmd.url, httpclient.WithTimeout(cmd.timeout))
	path := "/api/v1/internal/services/" + url.PathEscape(cmd.service) + "/payloads"

	var result map[string]any
	if err := client.PostJSON(ctx, path, map[string]string{
		"user_id": cmd.user,
		"payload": payload,
	}, &result); err != nil {
		return fmt.Errorf("ペイロードの送信に失敗: %w", err)
	}
	cmd.flags.Logger.Debug().Str("url", cmd.url).Str("service", cmd.service).Msg("sent")

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("結果のシリアライズに失敗: %w", err)
	}
	_, err = fmt.Fprintln(c.Root().Writer, string(out))
	return err
}
