package notification

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNotificationType は各バリアントが正しい判別子を返すことを検証する。
func TestNotificationType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    Notification
		want Type
	}{
		{n: NewMessage{}, want: "newMessage"},
		{n: MessageSent{}, want: "messageSent"},
		{n: MessageReceived{}, want: "messageReceived"},
		{n: IncomingCall{}, want: "incomingCall"},
		{n: VoicemailReceived{}, want: "voicemailReceived"},
		{n: VaultUpdated{}, want: "vaultUpdated"},
		{n: ProtocolChanged{}, want: "protocolChanged"},
		{n: ServerListUpdated{}, want: "serverListUpdated"},
		{n: Unknown{Type: "mysteryEvent"}, want: "mysteryEvent"},
	}

	for _, tt := range tests {
		t.Run(string(tt.want)+"の判別子が正しいこと", func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.n.NotificationType())
		})
	}
}

// TestVPNProtocol はVPNプロトコルの生の値との相互変換を検証する。
func TestVPNProtocol(t *testing.T) {
	t.Parallel()

	t.Run("すべてのプロトコルが生の値とラウンドトリップすること", func(t *testing.T) {
		t.Parallel()

		for _, p := range []VPNProtocol{VPNProtocolIKEv2, VPNProtocolWireGuard, VPNProtocolOpenVPN} {
			parsed, err := ParseVPNProtocol(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, parsed)
		}
	})

	t.Run("生の値が期待通りであること", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "ikev2", VPNProtocolIKEv2.String())
		assert.Equal(t, "wireguard", VPNProtocolWireGuard.String())
		assert.Equal(t, "openvpn", VPNProtocolOpenVPN.String())
		assert.Equal(t, "", VPNProtocol(0).String())
	})

	t.Run("未知の生の値はエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := ParseVPNProtocol("pptp")
		require.Error(t, err)
	})

	t.Run("JSONでは生の文字列値として表現されること", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(ProtocolChanged{Protocol: VPNProtocolIKEv2})
		require.NoError(t, err)
		assert.JSONEq(t, `{"protocol":"ikev2"}`, string(b))

		var got ProtocolChanged
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, VPNProtocolIKEv2, got.Protocol)
	})

	t.Run("文字列以外のJSON値はエラーになること", func(t *testing.T) {
		t.Parallel()

		var got ProtocolChanged
		require.Error(t, json.Unmarshal([]byte(`{"protocol":1}`), &got))
	})
}

// TestServices は既知のサービス名がすべてデコーダーを持つことを検証する。
func TestServices(t *testing.T) {
	t.Parallel()

	for _, s := range Services() {
		_, ok := catalog[s]
		assert.True(t, ok, "サービス %q のデコード関数がありません", s)
	}
}
