// Package db は通知サービスのSQLiteクエリを提供する。
package db

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound は指定した通知が存在しないことを表す。
var ErrNotFound = errors.New("通知が見つかりません")

// DBTX は *sql.DB と *sql.Tx の共通インターフェース。
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries は通知テーブルに対するクエリを実行する。
type Queries struct {
	db DBTX
}

// New はQueriesを生成する。
func New(db DBTX) *Queries {
	return &Queries{db: db}
}
