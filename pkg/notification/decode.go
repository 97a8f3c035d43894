package notification

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// Decoder はサービス単位のペイロードを通知に変換する。
type Decoder interface {
	// ServiceName はデコーダーが束縛されているサービス名を返す。
	ServiceName() string
	// Decode はペイロードを通知に変換する。失敗することはなく、
	// 解析できない場合はUnknownを返す。
	Decode(payload string) Notification
}

// Client は Decoder の標準実装。
// 生成時に1つのサービスに束縛され、以降変更されない。
type Client struct {
	// serviceName は束縛されているサービス名。
	serviceName string
	// decodeFunc はサービスの既知バリアントを判別子で選択する関数。
	decodeFunc decodeFunc
	// placeholder は判別子を取り出せなかった場合にUnknownへ設定する値。
	placeholder Type
	// calls はDecodeの呼び出し回数。
	calls atomic.Int64
}

var _ Decoder = (*Client)(nil)

// Option はClientの生成オプション。
type Option func(*Client)

// WithPlaceholder は判別子を取り出せなかった場合にUnknownへ設定する値を指定する。
func WithPlaceholder(typ Type) Option {
	return func(c *Client) {
		c.placeholder = typ
	}
}

// NewDecoder は指定したサービスに束縛されたデコーダーを生成する。
// 未知のサービス名を指定した場合、すべてのペイロードがUnknownになる。
func NewDecoder(serviceName string, opts ...Option) *Client {
	c := &Client{
		serviceName: serviceName,
		decodeFunc:  catalog[serviceName],
	}
	if c.decodeFunc == nil {
		c.decodeFunc = decodeNone
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ServiceName はデコーダーが束縛されているサービス名を返す。
func (c *Client) ServiceName() string {
	return c.serviceName
}

// Calls はこれまでのDecodeの呼び出し回数を返す。
func (c *Client) Calls() int64 {
	return c.calls.Load()
}

// envelope はペイロードの外側の構造。
type envelope struct {
	// Type は判別子。文字列以外が入っている場合も生の値を保持する。
	Type json.RawMessage `json:"type"`
	// ServiceName はペイロードの宛先サービス。省略可能。
	// 文字列以外の値でも外側の構造の解析は失敗させない。
	ServiceName json.RawMessage `json:"serviceName"`
	// Data はバリアント固有のフィールド。省略時はオブジェクト全体を使う。
	Data json.RawMessage `json:"data"`
}

// Decode はペイロードを通知に変換する。
func (c *Client) Decode(payload string) Notification {
	c.calls.Add(1)

	raw := unwrap(payload)

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Unknown{Type: c.placeholder}
	}

	typ := discriminator(env.Type)
	if typ == "" {
		return Unknown{Type: c.placeholder}
	}
	if !c.addressedTo(env.ServiceName) {
		return Unknown{Type: typ}
	}

	body := raw
	if isObject(env.Data) {
		body = env.Data
	}

	n, err := c.decodeFunc(typ, body)
	if err != nil {
		return Unknown{Type: typ}
	}
	return n
}

// addressedTo はペイロードの宛先がこのデコーダーのサービスかどうかを返す。
// 省略またはnullの場合は宛先を問わない。文字列以外の値は別サービス宛てとみなす。
func (c *Client) addressedTo(raw json.RawMessage) bool {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return true
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return false
	}
	return name == "" || name == c.serviceName
}

// unwrap はペイロードからJSONオブジェクトのバイト列を取り出す。
// JSONでない場合はbase64として復号を試み、結果がJSONオブジェクトであればそれを使う。
func unwrap(payload string) []byte {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed)
	}
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		decoded, err := enc.DecodeString(trimmed)
		if err != nil {
			continue
		}
		if isObject(decoded) {
			return bytes.TrimSpace(decoded)
		}
	}
	return []byte(trimmed)
}

// discriminator は判別子を文字列として取り出す。
// 文字列以外の値はJSON表現をそのまま使う。
// 文字列中の不正なUTF-8はencoding/jsonによりU+FFFDへ置き換えられる。
// Unknown.Typeは診断用の値であり、元のバイト列は保持しない。
func discriminator(raw json.RawMessage) Type {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Type(s)
	}
	return Type(bytes.TrimSpace(raw))
}

func isObject(b []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(b), []byte("{"))
}

// errUnknownType は判別子がサービスの既知バリアントに一致しないことを表す。
var errUnknownType = errors.New("未知の通知タイプ")

// decodeFunc は判別子とバリアント本体から通知を生成する関数。
type decodeFunc func(typ Type, body []byte) (Notification, error)

// catalog はサービス名ごとのデコード関数。
var catalog = map[string]decodeFunc{
	ServiceEmail:     decodeEmail,
	ServiceTelephony: decodeTelephony,
	ServiceVault:     decodeVault,
	ServiceVPN:       decodeVPN,
}

func decodeEmail(typ Type, body []byte) (Notification, error) {
	switch typ {
	case TypeNewMessage:
		return decodeAs[NewMessage](body)
	case TypeMessageSent:
		return decodeAs[MessageSent](body)
	default:
		return nil, errUnknownType
	}
}

func decodeTelephony(typ Type, body []byte) (Notification, error) {
	switch typ {
	case TypeMessageReceived:
		return decodeAs[MessageReceived](body)
	case TypeIncomingCall:
		return decodeAs[IncomingCall](body)
	case TypeVoicemailReceived:
		return decodeAs[VoicemailReceived](body)
	default:
		return nil, errUnknownType
	}
}

func decodeVault(typ Type, body []byte) (Notification, error) {
	switch typ {
	case TypeVaultUpdated:
		return decodeAs[VaultUpdated](body)
	default:
		return nil, errUnknownType
	}
}

func decodeVPN(typ Type, body []byte) (Notification, error) {
	switch typ {
	case TypeProtocolChanged:
		n, err := decodeAs[ProtocolChanged](body)
		if err != nil {
			return nil, err
		}
		if n.Protocol.String() == "" {
			return nil, errors.New("protocolが指定されていません")
		}
		return n, nil
	case TypeServerListUpdated:
		return decodeAs[ServerListUpdated](body)
	default:
		return nil, errUnknownType
	}
}

func decodeNone(Type, []byte) (Notification, error) {
	return nil, errUnknownType
}

// decodeAs はバリアント本体を指定された型にデシリアライズする。
func decodeAs[T Notification](body []byte) (T, error) {
	var n T
	if err := json.Unmarshal(body, &n); err != nil {
		return n, fmt.Errorf("通知データのデシリアライズに失敗: %w", err)
	}
	return n, nil
}
