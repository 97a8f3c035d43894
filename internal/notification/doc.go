// Package notification は通知サービスの内部実装を提供する。
//
// プッシュ中継から届く不透明なペイロードを、サービスごとのデコーダーで
// 通知バリアントに変換し、表示文言を付けて保存する。ペイロードはHTTPの
// 内部APIとNATSのサブジェクトのどちらからでも受け取れる。
// ユーザー向けには通知の一覧取得と既読管理を提供する。
package notification
