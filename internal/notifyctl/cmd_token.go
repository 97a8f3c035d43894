package notifyctl

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/nao1215/pushnotify/pkg/middleware"
)

// TokenCmd は開発用のJWTを発行するコマンド。
type TokenCmd struct {
	flags *Flags

	secret string
	user   string
	ttl    time.Duration
}

// NewTokenCmd はtokenコマンドを生成する。
func NewTokenCmd(flags *Flags) *TokenCmd {
	return &TokenCmd{flags: flags}
}

// Register はtokenコマンドをアプリケーションに追加する。
func (cmd *TokenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "token",
		Usage:     "開発用のJWTを発行する",
		UsageText: "notifyctl token --user <id> [--secret <secret>] [--ttl 24h]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "secret",
				Usage:       "署名に使う共有鍵",
				Sources:     cli.EnvVars("JWT_SECRET"),
				Value:       "dev-secret-key",
				Destination: &cmd.secret,
			},
			&cli.StringFlag{
				Name:        "user",
				Aliases:     []string{"u"},
				Usage:       "トークンに含めるユーザーID",
				Required:    true,
				Destination: &cmd.user,
			},
			&cli.DurationFlag{
				Name:        "ttl",
				Usage:       "トークンの有効期間",
				Value:       24 * time.Hour,
				Destination: &cmd.ttl,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *TokenCmd) run(_ context.Context, c *cli.Command) error {
	token, err := middleware.GenerateJWT(cmd.secret, cmd.user, cmd.ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.Root().Writer, token)
	return err
}
