// Package httpclient は通知サービスのAPIを呼び出すJSON HTTPクライアントを提供する。
//
// notifyctl からの内部API（ペイロード送信）やユーザーAPI（通知一覧）の呼び出しに使う。
package httpclient
