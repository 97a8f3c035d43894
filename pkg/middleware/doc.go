// Package middleware は通知サービスのHTTP APIで使用するGinミドルウェアを提供する。
//
// JWT認証トークンの検証、zerologによるリクエストログ、パニックリカバリ、
// CORS設定、Prometheusメトリクスの記録を含む。
package middleware
