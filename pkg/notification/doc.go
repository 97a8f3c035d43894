// Package notification はサービス単位のプッシュ通知ペイロードを型付きの通知値に変換する。
//
// 通知は閉じた直和型（Notification）として表現される。各サービス（メール、電話、
// パスワード管理、VPN）ごとに既知のバリアントが定義されており、ペイロード中の
// "type" フィールド（判別子）によってバリアントを選択する。
//
// デコードは全域関数であり、壊れたペイロードや未知の判別子はエラーではなく
// Unknown バリアントとして返す。通知サービス拡張のような制約の厳しい実行環境から
// 呼び出されることを想定しているため、I/Oやロックは行わない。
package notification
