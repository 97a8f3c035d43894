package notifyctl

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/nao1215/pushnotify/pkg/notification"
)

// DecodeCmd はペイロードをローカルでデコードするコマンド。
type DecodeCmd struct {
	flags *Flags

	service     string
	placeholder string
}

// NewDecodeCmd はdecodeコマンドを生成する。
func NewDecodeCmd(flags *Flags) *DecodeCmd {
	return &DecodeCmd{flags: flags}
}

// Register はdecodeコマンドをアプリケーションに追加する。
func (cmd *DecodeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "decode",
		Usage:     "ペイロードをデコードして結果を表示する",
		UsageText: "notifyctl decode --service <name> [payload | -]",
		Description: `サービスのデコーダーでペイロードを解釈し、バリアントと表示文言をJSONで出力します。
ペイロードを省略するか "-" を指定した場合は標準入力から読み込みます。`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "service",
				Aliases:     []string{"s"},
				Usage:       "デコーダーを束縛するサービス名",
				Required:    true,
				Destination: &cmd.service,
			},
			&cli.StringFlag{
				Name:        "placeholder",
				Usage:       "判別子を取り出せなかった場合のUnknownの値",
				Destination: &cmd.placeholder,
			},
		},
		Action: cmd.run,
	})
	return app
}

// decodeResult はdecodeコマンドの出力。
type decodeResult struct {
	Service string             `json:"service"`
	Type    string             `json:"type"`
	Known   bool               `json:"known"`
	Fields  map[string]any     `json:"fields"`
	Alert   notification.Alert `json:"alert"`
}

func (cmd *DecodeCmd) run(_ context.Context, c *cli.Command) error {
	payload, err := readPayload(c)
	if err != nil {
		return err
	}

	decoder := notification.NewDecoder(cmd.service, notification.WithPlaceholder(notification.Type(cmd.placeholder)))
	n := decoder.Decode(payload)

	fields, err := notification.DecodeFields(n)
	if err != nil {
		return err
	}
	cmd.flags.Logger.Debug().Str("service", cmd.service).Int("bytes", len(payload)).Msg("decoded")

	out, err := json.MarshalIndent(decodeResult{
		Service: cmd.service,
		Type:    string(n.NotificationType()),
		Known:   !notification.IsUnknown(n),
		Fields:  fields,
		Alert:   notification.Render(n),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("結果のシリアライズに失敗: %w", err)
	}
	_, err = fmt.Fprintln(c.Root().Writer, string(out))
	return err
}
