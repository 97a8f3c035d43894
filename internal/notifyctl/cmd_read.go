package notifyctl

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/urfave/cli/v3"

	"github.com/nao1215/pushnotify/pkg/httpclient"
)

// serviceFlags は通知サービスへ接続するコマンドで共通のフラグを返す。
func serviceFlags(baseURL, token *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "url",
			Usage:       "通知サービスのベースURL",
			Sources:     cli.EnvVars("NOTIFYCTL_URL"),
			Value:       defaultURL,
			Destination: baseURL,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "Bearerトークン",
			Sources:     cli.EnvVars("NOTIFYCTL_TOKEN"),
			Required:    true,
			Destination: token,
		},
	}
}

// markReadResponse は既読APIのレスポンス。
type markReadResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// ReadCmd は指定した通知を既読にするコマンド。
type ReadCmd struct {
	flags *Flags

	url   string
	token string
}

// NewReadCmd はreadコマンドを生成する。
func NewReadCmd(flags *Flags) *ReadCmd {
	return &ReadCmd{flags: flags}
}

// Register はreadコマンドをアプリケーションに追加する。
func (cmd *ReadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "read",
		Usage:     "通知を既読にする",
		UsageText: "notifyctl read --token <jwt> [--url <url>] <id>",
		Flags:     serviceFlags(&cmd.url, &cmd.token),
		Action:    cmd.run,
	})
	return app
}

func (cmd *ReadCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return errors.New("通知IDが指定されていません")
	}

	client := httpclient.New(cmd.url, httpclient.WithBearerToken(cmd.token))
	var resp markReadResponse
	if err := client.PutJSON(ctx, "/api/v1/notifications/"+url.PathEscape(id)+"/read", nil, &resp); err != nil {
		return fmt.Errorf("通知の既読処理に失敗: %w", err)
	}
	cmd.flags.Logger.Debug().Str("id", id).Msg("marked as read")

	_, err := fmt.Fprintln(c.Root().Writer, resp.Message)
	return err
}

// ReadAllCmd は認証済みユーザーの全通知を既読にするコマンド。
type ReadAllCmd struct {
	flags *Flags

	url   string
	token string
}

// NewReadAllCmd はread-allコマンドを生成する。
func NewReadAllCmd(flags *Flags) *ReadAllCmd {
	return &ReadAllCmd{flags: flags}
}

// Register はread-allコマンドをアプリケーションに追加する。
func (cmd *ReadAllCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "read-all",
		Usage:     "全通知を既読にする",
		UsageText: "notifyctl read-all --token <jwt> [--url <url>]",
		Flags:     serviceFlags(&cmd.url, &cmd.token),
		Action:    cmd.run,
	})
	return app
}

func (cmd *ReadAllCmd) run(ctx context.Context, c *cli.Command) error {
	client := httpclient.New(cmd.url, httpclient.WithBearerToken(cmd.token))
	var resp markReadResponse
	if err := client.PutJSON(ctx, "/api/v1/notifications/read-all", nil, &resp); err != nil {
		return fmt.Errorf("全通知の既読処理に失敗: %w", err)
	}
	cmd.flags.Logger.Debug().Int64("updated", resp.Updated).Msg("marked all as read")

	_, err := fmt.Fprintf(c.Root().Writer, "%d件の通知を既読にしました\n", resp.Updated)
	return err
}
