package notifyctl

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/nao1215/pushnotify/pkg/httpclient"
)

// ListCmd は認証済みユーザーの通知一覧を表示するコマンド。
type ListCmd struct {
	flags *Flags

	url        string
	token      string
	unread     bool
	jsonOutput bool
}

// NewListCmd はlistコマンドを生成する。
func NewListCmd(flags *Flags) *ListCmd {
	return &ListCmd{flags: flags}
}

// Register はlistコマンドをアプリケーションに追加する。
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "通知一覧を表示する",
		UsageText: "notifyctl list --token <jwt> [--url <url>] [--unread] [--json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "url",
				Usage:       "通知サービスのベースURL",
				Sources:     cli.EnvVars("NOTIFYCTL_URL"),
				Value:       defaultURL,
				Destination: &cmd.url,
			},
			&cli.StringFlag{
				Name:        "token",
				Usage:       "Bearerトークン",
				Sources:     cli.EnvVars("NOTIFYCTL_TOKEN"),
				Required:    true,
				Destination: &cmd.token,
			},
			&cli.BoolFlag{
				Name:        "unread",
				Usage:       "未読の通知のみ表示する",
				Destination: &cmd.unread,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "JSONで出力する",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})
	return app
}

// listedNotification は一覧APIのレスポンス要素。
type listedNotification struct {
	ID        string `json:"id"`
	Service   string `json:"service"`
	Type      string `json:"type"`
	Known     bool   `json:"known"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func (cmd *ListCmd) run(ctx context.Context, c *cli.Command) error {
	path := "/api/v1/notifications"
	if cmd.unread {
		path += "/unread"
	}

	client := httpclient.New(cmd.url, httpclient.WithBearerToken(cmd.token))
	var items []listedNotification
	if err := client.GetJSON(ctx, path, &items); err != nil {
		return fmt.Errorf("通知一覧の取得に失敗: %w", err)
	}
	cmd.flags.Logger.Debug().Int("count", len(items)).Msg("listed")

	out := c.Root().Writer
	if cmd.jsonOutput {
		enc := json.NewEncoder(out)
		for _, item := range items {
			if err := enc.Encode(item); err != nil {
				return fmt.Errorf("通知の出力に失敗: %w", err)
			}
		}
		return nil
	}

	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "通知はありません")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSERVICE\tTYPE\tREAD\tCREATED\tTITLE\tMESSAGE")
	for _, n := range items {
		read := "-"
		if n.IsRead {
			read = "✓"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", n.ID, n.Service, n.Type, read, n.CreatedAt, n.Title, n.Message)
	}
	return w.Flush()
}
