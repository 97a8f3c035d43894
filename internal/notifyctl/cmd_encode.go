package notifyctl

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/nao1215/pushnotify/pkg/notification"
)

// EncodeCmd はフィールドからペイロードを組み立てるコマンド。
type EncodeCmd struct {
	flags *Flags

	service string
	typ     string
	fields  []string
	base64  bool
}

// NewEncodeCmd はencodeコマンドを生成する。
func NewEncodeCmd(flags *Flags) *EncodeCmd {
	return &EncodeCmd{flags: flags}
}

// Register はencodeコマンドをアプリケーションに追加する。
func (cmd *EncodeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "encode",
		Usage:     "フィールドを指定してペイロードを組み立てる",
		UsageText: "notifyctl encode --service <name> --type <type> [--field key=value ...] [--base64]",
		Description: `判別子とフィールドから通知を組み立て、サービス宛てのペイロードを出力します。
値はJSONとして解釈できればその型で、できなければ文字列として扱います。
サービスのデコーダーで既知のバリアントにならない組み合わせはエラーになります。`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "service",
				Aliases:     []string{"s"},
				Usage:       "宛先のサービス名",
				Required:    true,
				Destination: &cmd.service,
			},
			&cli.StringFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "通知の判別子",
				Required:    true,
				Destination: &cmd.typ,
			},
			&cli.StringSliceFlag{
				Name:        "field",
				Aliases:     []string{"f"},
				Usage:       "バリアントのフィールド (key=value)",
				Destination: &cmd.fields,
			},
			&cli.BoolFlag{
				Name:        "base64",
				Usage:       "base64で包んで出力する",
				Destination: &cmd.base64,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *EncodeCmd) run(_ context.Context, c *cli.Command) error {
	obj, err := parseFields(cmd.fields)
	if err != nil {
		return err
	}
	obj["type"] = cmd.typ

	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("フィールドのシリアライズに失敗: %w", err)
	}

	n := notification.NewDecoder(cmd.service).Decode(string(raw))
	if notification.IsUnknown(n) {
		return fmt.Errorf("%sの既知の通知として組み立てられません: type=%s", cmd.service, cmd.typ)
	}

	payload, err := notification.Encode(cmd.service, n)
	if err != nil {
		return err
	}
	if cmd.base64 {
		payload = base64.StdEncoding.EncodeToString([]byte(payload))
	}
	cmd.flags.Logger.Debug().Str("service", cmd.service).Str("type", cmd.typ).Msg("encoded")

	_, err = fmt.Fprintln(c.Root().Writer, payload)
	return err
}

// parseFields は key=value の一覧をJSONオブジェクト用のマップに変換する。
func parseFields(pairs []string) (map[string]any, error) {
	obj := make(map[string]any, len(pairs)+1)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("フィールドの形式が不正です（key=valueで指定）: %q", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		obj[key] = v
	}
	return obj, nil
}
