package notification

import (
	"fmt"
	"time"
)

// Alert はユーザーに表示する通知の文面。
type Alert struct {
	// Title は通知のタイトル。
	Title string `json:"title"`
	// Body は通知の本文。
	Body string `json:"body"`
}

// Render は通知を表示用の文面に変換する。
// Unknownの場合でも判別子を含む汎用の文面を返す。
func Render(n Notification) Alert {
	switch v := n.(type) {
	case NewMessage:
		title := "新着メール"
		if v.Encrypted {
			title = "新着メール（暗号化）"
		}
		body := v.Subject
		if body == "" {
			body = "（件名なし）"
		}
		if v.Sender != "" {
			body = fmt.Sprintf("%s: %s", v.Sender, body)
		}
		return Alert{Title: title, Body: body}
	case MessageSent:
		return Alert{Title: "メール送信完了", Body: "メールを送信しました"}
	case MessageReceived:
		body := v.Body
		if body == "" {
			body = "メッセージを受信しました"
		}
		return Alert{Title: fmt.Sprintf("%sからのメッセージ", v.From), Body: body}
	case IncomingCall:
		return Alert{Title: "着信", Body: fmt.Sprintf("%sから%sへの着信があります", v.From, v.To)}
	case VoicemailReceived:
		d := time.Duration(v.DurationSeconds) * time.Second
		return Alert{Title: "留守番電話", Body: fmt.Sprintf("%sから新しい留守番電話があります（%s）", v.From, d)}
	case VaultUpdated:
		return Alert{Title: "パスワード管理", Body: fmt.Sprintf("Vaultが更新されました（バージョン %d）", v.Version)}
	case ProtocolChanged:
		return Alert{Title: "VPN", Body: fmt.Sprintf("接続プロトコルが %s に変更されました", v.Protocol)}
	case ServerListUpdated:
		return Alert{Title: "VPN", Body: fmt.Sprintf("利用可能なサーバーが %d 件に更新されました", v.Count)}
	case Unknown:
		if v.Type == "" {
			return Alert{Title: "新しい通知", Body: "新しい通知があります"}
		}
		return Alert{Title: "新しい通知", Body: fmt.Sprintf("新しい通知があります（種類: %s）", v.Type)}
	default:
		return Alert{Title: "新しい通知", Body: "新しい通知があります"}
	}
}
