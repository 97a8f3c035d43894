package db

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nao1215/pushnotify/pkg/migration"
)

// setupQueries はマイグレーション済みのインメモリSQLiteでQueriesを構築する。
func setupQueries(t *testing.T) *Queries {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migration.NewRunner(sqlDB, os.DirFS(".."), "migrations", zerolog.Nop()).Run(t.Context())
	require.NoError(t, err)

	return New(sqlDB)
}

func insert(t *testing.T, q *Queries, p CreateNotificationParams) {
	t.Helper()
	if p.Service == "" {
		p.Service = "email"
	}
	require.NoError(t, q.CreateNotification(t.Context(), p))
}

func TestCreateAndGetNotification(t *testing.T) {
	t.Parallel()

	t.Run("保存した通知をIDで取得できること", func(t *testing.T) {
		t.Parallel()
		q := setupQueries(t)

		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		insert(t, q, CreateNotificationParams{
			ID:        "n-1",
			UserID:    "user-1",
			Service:   "vpn",
			Type:      "protocolChanged",
			Known:     true,
			Title:     "VPN",
			Message:   "プロトコルが変更されました",
			Payload:   `{"type":"protocolChanged","protocol":"wireguard"}`,
			CreatedAt: created,
		})

		got, err := q.GetNotificationByID(t.Context(), "n-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "vpn", got.Service)
		assert.Equal(t, "protocolChanged", got.Type)
		assert.True(t, got.Known)
		assert.Equal(t, "プロトコルが変更されました", got.Message)
		assert.Equal(t, `{"type":"protocolChanged","protocol":"wireguard"}`, got.Payload)
		assert.False(t, got.IsRead)
		assert.True(t, created.Equal(got.CreatedAt), "created_at: got %v", got.CreatedAt)
	})

	t.Run("存在しないIDはErrNotFoundを返すこと", func(t *testing.T) {
		t.Parallel()
		q := setupQueries(t)

		_, err := q.GetNotificationByID(t.Context(), "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListNotifications(t *testing.T) {
	t.Parallel()

	t.Run("新しい順に本人の通知だけを返すこと", func(t *testing.T) {
		t.Parallel()
		q := setupQueries(t)

		base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		insert(t, q, CreateNotificationParams{ID: "old", UserID: "user-1", Title: "t", Message: "m", CreatedAt: base})
		insert(t, q, CreateNotificationParams{ID: "new", UserID: "user-1", Title: "t", Message: "m", CreatedAt: base.Add(time.Minute)})
		insert(t, q, CreateNotificationParams{ID: "other", UserID: "user-2", Title: "t", Message: "m", CreatedAt: base})

		got, err := q.ListNotificationsByUserID(t.Context(), "user-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "new", got[0].ID)
		assert.Equal(t, "old", got[1].ID)
	})

	t.Run("通知がない場合は空スライスを返すこと", func(t *testing.T) {
		t.Parallel()
		q := setupQueries(t)

		got, err := q.ListNotificationsByUserID(t.Context(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("未読一覧は既読を含まないこと", func(t *testing.T) {
		t.Parallel()
		q := setupQueries(t)

		insert(t, q, CreateNotificationParams{ID: "a", UserID: "user-1", Title: "t", Message: "m"})
		insert(t, q, CreateNotificationParams{ID: "b", UserID: "user-1", Title: "t", Message: "m"})
		require.NoError(t, q.MarkAsRead(t.Context(), "a"))

		got, err := q.ListUnreadNotifications(t.Context(), "user-1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].ID)
	})
}

func TestMarkAllAsRead(t *testing.T) {
	t.Parallel()

	q := setupQueries(t)
	insert(t, q, CreateNotificationParams{ID: "a", UserID: "user-1", Title: "t", Message: "m"})
	insert(t, q, CreateNotificationParams{ID: "b", UserID: "user-1", Title: "t", Message: "m"})
	insert(t, q, CreateNotificationParams{ID: "c", UserID: "user-2", Title: "t", Message: "m"})
	require.NoError(t, q.MarkAsRead(t.Context(), "a"))

	updated, err := q.MarkAllAsRead(t.Context(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	unread, err := q.ListUnreadNotifications(t.Context(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, unread)

	other, err := q.ListUnreadNotifications(t.Context(), "user-2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestCountByServiceType(t *testing.T) {
	t.Parallel()

	q := setupQueries(t)
	insert(t, q, CreateNotificationParams{ID: "1", UserID: "u", Service: "email", Type: "newMessage", Known: true, Title: "t", Message: "m"})
	insert(t, q, CreateNotificationParams{ID: "2", UserID: "u", Service: "email", Type: "newMessage", Known: true, Title: "t", Message: "m"})
	insert(t, q, CreateNotificationParams{ID: "3", UserID: "u", Service: "email", Type: "mystery", Title: "t", Message: "m"})
	insert(t, q, CreateNotificationParams{ID: "4", UserID: "u", Service: "vpn", Type: "serverListUpdated", Known: true, Title: "t", Message: "m"})

	got, err := q.CountByServiceType(t.Context(), "email")
	require.NoError(t, err)
	assert.Equal(t, []TypeCount{
		{Type: "mystery", Known: false, Count: 1},
		{Type: "newMessage", Known: true, Count: 2},
	}, got)

	empty, err := q.CountByServiceType(t.Context(), "vault")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
