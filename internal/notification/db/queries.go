package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const notificationColumns = `id, user_id, service, type, known, title, message, payload, is_read, created_at`

// CreateNotificationParams はCreateNotificationの引数。
type CreateNotificationParams struct {
	ID        string
	UserID    string
	Service   string
	Type      string
	Known     bool
	Title     string
	Message   string
	Payload   string
	CreatedAt time.Time
}

const createNotification = `
INSERT INTO notifications (id, user_id, service, type, known, title, message, payload, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// CreateNotification は通知を1件挿入する。
func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) error {
	createdAt := arg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := q.db.ExecContext(ctx, createNotification,
		arg.ID,
		arg.UserID,
		arg.Service,
		arg.Type,
		arg.Known,
		arg.Title,
		arg.Message,
		arg.Payload,
		createdAt.UTC(),
	)
	return err
}

const getNotificationByID = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`

// GetNotificationByID はIDで通知を取得する。存在しない場合はErrNotFoundを返す。
func (q *Queries) GetNotificationByID(ctx context.Context, id string) (Notification, error) {
	n, err := scanNotification(q.db.QueryRowContext(ctx, getNotificationByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Notification{}, ErrNotFound
	}
	return n, err
}

const listNotificationsByUserID = `SELECT ` + notificationColumns + `
FROM notifications
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`

// ListNotificationsByUserID はユーザーの通知を新しい順に取得する。
func (q *Queries) ListNotificationsByUserID(ctx context.Context, userID string) ([]Notification, error) {
	return q.list(ctx, listNotificationsByUserID, userID)
}

const listUnreadNotifications = `SELECT ` + notificationColumns + `
FROM notifications
WHERE user_id = ? AND is_read = 0
ORDER BY created_at DESC, id DESC`

// ListUnreadNotifications はユーザーの未読通知を新しい順に取得する。
func (q *Queries) ListUnreadNotifications(ctx context.Context, userID string) ([]Notification, error) {
	return q.list(ctx, listUnreadNotifications, userID)
}

const markAsRead = `UPDATE notifications SET is_read = 1 WHERE id = ?`

// MarkAsRead は通知を既読にする。
func (q *Queries) MarkAsRead(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markAsRead, id)
	return err
}

const markAllAsRead = `UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`

// MarkAllAsRead はユーザーの全通知を既読にし、更新した件数を返す。
func (q *Queries) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, markAllAsRead, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) list(ctx context.Context, query string, args ...any) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// scanner は *sql.Row と *sql.Rows の共通インターフェース。
type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(s scanner) (Notification, error) {
	var n Notification
	if err := s.Scan(
		&n.ID,
		&n.UserID,
		&n.Service,
		&n.Type,
		&n.Known,
		&n.Title,
		&n.Message,
		&n.Payload,
		&n.IsRead,
		&n.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Notification{}, err
		}
		return Notification{}, fmt.Errorf("通知行の読み取りに失敗: %w", err)
	}
	return n, nil
}

// TypeCount はサービス内の判別子ごとの件数。
type TypeCount struct {
	Type  string
	Known bool
	Count int64
}

const countByServiceType = `
SELECT type, known, COUNT(*)
FROM notifications
WHERE service = ?
GROUP BY type, known
ORDER BY type`

// CountByServiceType はサービスに届いた通知を判別子ごとに集計する。
func (q *Queries) CountByServiceType(ctx context.Context, service string) ([]TypeCount, error) {
	rows, err := q.db.QueryContext(ctx, countByServiceType, service)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := []TypeCount{}
	for rows.Next() {
		var c TypeCount
		if err := rows.Scan(&c.Type, &c.Known, &c.Count); err != nil {
			return nil, fmt.Errorf("集計行の読み取りに失敗: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
