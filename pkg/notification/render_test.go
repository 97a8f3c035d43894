package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRender は通知が表示用の文面に変換されることを検証する。
func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    Notification
		want Alert
	}{
		{
			name: "送信者と件名があるメール",
			n:    NewMessage{ID: "m", Sender: "alice@example.com", Subject: "会議"},
			want: Alert{Title: "新着メール", Body: "alice@example.com: 会議"},
		},
		{
			name: "件名のない暗号化メール",
			n:    NewMessage{ID: "m", Encrypted: true},
			want: Alert{Title: "新着メール（暗号化）", Body: "（件名なし）"},
		},
		{
			name: "送信完了",
			n:    MessageSent{ID: "m"},
			want: Alert{Title: "メール送信完了", Body: "メールを送信しました"},
		},
		{
			name: "本文のないSMS",
			n:    MessageReceived{From: "+1555"},
			want: Alert{Title: "+1555からのメッセージ", Body: "メッセージを受信しました"},
		},
		{
			name: "着信",
			n:    IncomingCall{From: "+1", To: "+2"},
			want: Alert{Title: "着信", Body: "+1から+2への着信があります"},
		},
		{
			name: "留守番電話",
			n:    VoicemailReceived{From: "+1", DurationSeconds: 90},
			want: Alert{Title: "留守番電話", Body: "+1から新しい留守番電話があります（1m30s）"},
		},
		{
			name: "Vault更新",
			n:    VaultUpdated{VaultID: "v", Version: 4},
			want: Alert{Title: "パスワード管理", Body: "Vaultが更新されました（バージョン 4）"},
		},
		{
			name: "VPNプロトコル変更",
			n:    ProtocolChanged{Protocol: VPNProtocolWireGuard},
			want: Alert{Title: "VPN", Body: "接続プロトコルが wireguard に変更されました"},
		},
		{
			name: "VPNサーバー一覧更新",
			n:    ServerListUpdated{Count: 3},
			want: Alert{Title: "VPN", Body: "利用可能なサーバーが 3 件に更新されました"},
		},
		{
			name: "判別子のあるUnknownは種類を含むこと",
			n:    Unknown{Type: "mysteryEvent"},
			want: Alert{Title: "新しい通知", Body: "新しい通知があります（種類: mysteryEvent）"},
		},
		{
			name: "判別子のないUnknownは汎用の文面になること",
			n:    Unknown{},
			want: Alert{Title: "新しい通知", Body: "新しい通知があります"},
		},
		{
			name: "nilでもパニックしないこと",
			n:    nil,
			want: Alert{Title: "新しい通知", Body: "新しい通知があります"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Render(tt.n))
		})
	}
}
