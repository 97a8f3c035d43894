package notification

import (
	"encoding/json"
	"fmt"
)

// サービス名。デコーダーはこのいずれかに束縛される。
const (
	// ServiceEmail はメールサービスを表す。
	ServiceEmail = "email"
	// ServiceTelephony は電話サービスを表す。
	ServiceTelephony = "telephony"
	// ServiceVault はパスワード管理（Vault）サービスを表す。
	ServiceVault = "vault"
	// ServiceVPN はVPNサービスを表す。
	ServiceVPN = "vpn"
)

// Services は既知のサービス名の一覧を返す。
func Services() []string {
	return []string{ServiceEmail, ServiceTelephony, ServiceVault, ServiceVPN}
}

// Type は通知の種類を表す判別子。
type Type string

const (
	// TypeNewMessage はメールを受信したことを表す。
	TypeNewMessage Type = "newMessage"
	// TypeMessageSent はメールの送信が完了したことを表す。
	TypeMessageSent Type = "messageSent"

	// TypeMessageReceived はSMS/MMSを受信したことを表す。
	TypeMessageReceived Type = "messageReceived"
	// TypeIncomingCall は着信があったことを表す。
	TypeIncomingCall Type = "incomingCall"
	// TypeVoicemailReceived は留守番電話が録音されたことを表す。
	TypeVoicemailReceived Type = "voicemailReceived"

	// TypeVaultUpdated はVaultが別デバイスで更新されたことを表す。
	TypeVaultUpdated Type = "vaultUpdated"

	// TypeProtocolChanged はVPNの接続プロトコルが変更されたことを表す。
	TypeProtocolChanged Type = "protocolChanged"
	// TypeServerListUpdated はVPNサーバー一覧が更新されたことを表す。
	TypeServerListUpdated Type = "serverListUpdated"
)

// Notification はデコード済みの通知を表す閉じた直和型。
// バリアントの追加はこのパッケージ内でのみ行える。
type Notification interface {
	// NotificationType は通知の判別子を返す。
	NotificationType() Type
	isNotification()
}

// NewMessage はメール受信通知。
type NewMessage struct {
	// ID はメールメッセージの識別子。
	ID string `json:"id"`
	// EmailAddressID は受信したメールアドレスの識別子。
	EmailAddressID string `json:"emailAddressId,omitempty"`
	// Sender は送信者のアドレス。
	Sender string `json:"sender,omitempty"`
	// Subject は件名。
	Subject string `json:"subject,omitempty"`
	// Encrypted はエンドツーエンド暗号化されたメッセージかどうか。
	Encrypted bool `json:"encrypted,omitempty"`
}

// MessageSent はメール送信完了通知。
type MessageSent struct {
	// ID はメールメッセージの識別子。
	ID string `json:"id"`
	// EmailAddressID は送信元メールアドレスの識別子。
	EmailAddressID string `json:"emailAddressId,omitempty"`
}

// MessageReceived はSMS/MMS受信通知。
type MessageReceived struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body,omitempty"`
}

// IncomingCall は着信通知。
type IncomingCall struct {
	CallID string `json:"callId"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// VoicemailReceived は留守番電話の録音通知。
type VoicemailReceived struct {
	ID              string `json:"id"`
	From            string `json:"from"`
	DurationSeconds int    `json:"durationSeconds"`
}

// VaultUpdated はVault更新通知。クライアントは再同期を行う。
type VaultUpdated struct {
	// VaultID は更新されたVaultの識別子。
	VaultID string `json:"vaultId"`
	// Version は更新後のVaultのバージョン。
	Version int64 `json:"version"`
}

// ProtocolChanged はVPN接続プロトコルの変更通知。
type ProtocolChanged struct {
	// Protocol は変更後のプロトコル。
	Protocol VPNProtocol `json:"protocol"`
}

// ServerListUpdated はVPNサーバー一覧の更新通知。
type ServerListUpdated struct {
	// Count は利用可能なサーバー数。
	Count int `json:"count"`
}

// Unknown は未知または解析できなかった通知。
// 診断用に判別子をできる限り保持する。
type Unknown struct {
	// Type はペイロードから取り出した判別子。取り出せなかった場合はプレースホルダー。
	Type Type `json:"type"`
}

func (NewMessage) NotificationType() Type        { return TypeNewMessage }
func (MessageSent) NotificationType() Type       { return TypeMessageSent }
func (MessageReceived) NotificationType() Type   { return TypeMessageReceived }
func (IncomingCall) NotificationType() Type      { return TypeIncomingCall }
func (VoicemailReceived) NotificationType() Type { return TypeVoicemailReceived }
func (VaultUpdated) NotificationType() Type      { return TypeVaultUpdated }
func (ProtocolChanged) NotificationType() Type   { return TypeProtocolChanged }
func (ServerListUpdated) NotificationType() Type { return TypeServerListUpdated }
func (u Unknown) NotificationType() Type         { return u.Type }

func (NewMessage) isNotification()        {}
func (MessageSent) isNotification()       {}
func (MessageReceived) isNotification()   {}
func (IncomingCall) isNotification()      {}
func (VoicemailReceived) isNotification() {}
func (VaultUpdated) isNotification()      {}
func (ProtocolChanged) isNotification()   {}
func (ServerListUpdated) isNotification() {}
func (Unknown) isNotification()           {}

// IsUnknown は通知がUnknownバリアントかどうかを返す。
func IsUnknown(n Notification) bool {
	_, ok := n.(Unknown)
	return ok
}

// VPNProtocol はVPNの接続プロトコルを表す。
// ペイロード上は生の文字列値で表現され、String と ParseVPNProtocol で相互に変換できる。
type VPNProtocol int

const (
	// VPNProtocolIKEv2 はIKEv2プロトコル。
	VPNProtocolIKEv2 VPNProtocol = iota + 1
	// VPNProtocolWireGuard はWireGuardプロトコル。
	VPNProtocolWireGuard
	// VPNProtocolOpenVPN はOpenVPNプロトコル。
	VPNProtocolOpenVPN
)

var vpnProtocolNames = map[VPNProtocol]string{
	VPNProtocolIKEv2:     "ikev2",
	VPNProtocolWireGuard: "wireguard",
	VPNProtocolOpenVPN:   "openvpn",
}

// String はプロトコルの生の値を返す。未定義の値は空文字列になる。
func (p VPNProtocol) String() string {
	return vpnProtocolNames[p]
}

// ParseVPNProtocol は生の値からプロトコルを取得する。
func ParseVPNProtocol(raw string) (VPNProtocol, error) {
	for p, name := range vpnProtocolNames {
		if name == raw {
			return p, nil
		}
	}
	return 0, fmt.Errorf("未知のVPNプロトコル: %q", raw)
}

// MarshalJSON はプロトコルを生の文字列値としてシリアライズする。
func (p VPNProtocol) MarshalJSON() ([]byte, error) {
	name, ok := vpnProtocolNames[p]
	if !ok {
		return nil, fmt.Errorf("未定義のVPNプロトコル値: %d", int(p))
	}
	return json.Marshal(name)
}

// UnmarshalJSON は生の文字列値からプロトコルを復元する。
func (p *VPNProtocol) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("VPNプロトコルは文字列である必要があります: %w", err)
	}
	parsed, err := ParseVPNProtocol(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
