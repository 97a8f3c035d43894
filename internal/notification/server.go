package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/nao1215/pushnotify/internal/config"
	notificationdb "github.com/nao1215/pushnotify/internal/notification/db"
	"github.com/nao1215/pushnotify/pkg/logging"
	"github.com/nao1215/pushnotify/pkg/middleware"
	"github.com/nao1215/pushnotify/pkg/notification"
)

// Server は通知サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries は通知テーブルのクエリ実行オブジェクト。
	queries *notificationdb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
	// decoders はサービス名ごとのデコーダー。起動時に生成し、以降変更しない。
	decoders map[string]notification.Decoder
	// registry はPrometheusメトリクスのレジストリ。
	registry *prometheus.Registry
	// decodeMetrics はデコード結果のメトリクス。
	decodeMetrics *decodeMetrics
	// nc はNATS接続。購読しない場合はnil。
	nc *nats.Conn
	// drained はNATS接続が閉じられたときにcloseされる。
	drained chan struct{}
	// logger はサーバーのロガー。
	logger zerolog.Logger
}

// NewServer は新しい通知サーバーを生成する。
// SQLiteデータベースの初期化とマイグレーション、サービスごとのデコーダー生成を行う。
func NewServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DBPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(ctx, sqlDB, logging.Component(logger, "migration")); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	decoders := make(map[string]notification.Decoder, len(cfg.Services))
	for _, service := range cfg.Services {
		decoders[service] = notification.NewDecoder(service)
	}

	return newServer(cfg, sqlDB, decoders, logger), nil
}

// newServer は依存を受け取ってサーバーを組み立てる。
func newServer(cfg *config.Config, sqlDB *sql.DB, decoders map[string]notification.Decoder, logger zerolog.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logging.Component(logger, "http")))
	router.Use(middleware.NewHTTPMetrics(registry).Middleware())
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}

	s := &Server{
		router:        router,
		port:          cfg.Port,
		queries:       notificationdb.New(sqlDB),
		db:            sqlDB,
		decoders:      decoders,
		registry:      registry,
		decodeMetrics: newDecodeMetrics(registry),
		logger:        logger,
	}
	s.setupRoutes(cfg.JWTSecret)
	return s
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるまで待つ。
// キャンセル後は処理中のリクエストを待ってから停止する。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("シャットダウンを開始します")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
		}
		return nil
	}
}

// Close はNATS接続とデータベース接続を閉じる。
// NATSは処理中のメッセージが保存されるまで待ってからデータベースを閉じる。
func (s *Server) Close() error {
	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("NATS接続のドレインに失敗")
		}
		select {
		case <-s.drained:
		case <-time.After(drainTimeout):
			s.logger.Warn().Dur("timeout", drainTimeout).Msg("NATS接続のドレインがタイムアウトしました")
		}
	}
	return s.db.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes(jwtSecret string) {
	api := s.router.Group("/api/v1")
	{
		notifications := api.Group("/notifications")
		notifications.Use(middleware.JWTAuth(jwtSecret))
		{
			// 通知一覧取得
			notifications.GET("", s.handleList())
			// 未読通知一覧取得
			notifications.GET("/unread", s.handleListUnread())
			// 通知を既読にする
			notifications.PUT("/:id/read", s.handleMarkAsRead())
			// 全通知を既読にする
			notifications.PUT("/read-all", s.handleMarkAllAsRead())
		}

		// 内部API。ペイロードの配送元（プッシュ中継）から呼び出される。
		internal := api.Group("/internal/services/:service")
		{
			internal.POST("/payloads", s.handleReceive())
			internal.GET("/stats", s.handleStats())
		}
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "notification"})
	})
}

// notificationResponse は通知のJSONレスポンス構造。
type notificationResponse struct {
	// ID は通知の一意識別子。
	ID string `json:"id"`
	// UserID は通知先のユーザーID。
	UserID string `json:"user_id"`
	// Service はペイロードを受信したサービス名。
	Service string `json:"service"`
	// Type はデコード結果の判別子。
	Type string `json:"type"`
	// Known は既知のバリアントとしてデコードできたかどうか。
	Known bool `json:"known"`
	// Title は通知のタイトル。
	Title string `json:"title"`
	// Message は通知メッセージ。
	Message string `json:"message"`
	// IsRead は通知の既読状態。
	IsRead bool `json:"is_read"`
	// CreatedAt は通知の作成日時（RFC3339形式）。
	CreatedAt string `json:"created_at"`
}

// toNotificationResponse はDB行をJSONレスポンスに変換する。
func toNotificationResponse(n notificationdb.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Service:   n.Service,
		Type:      n.Type,
		Known:     n.Known,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// toNotificationResponses はDB行のスライスをJSONレスポンスのスライスに変換する。
func toNotificationResponses(notifications []notificationdb.Notification) []notificationResponse {
	responses := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toNotificationResponse(n))
	}
	return responses
}

// handleList は認証済みユーザーの通知一覧を返すハンドラ。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		notifications, err := s.queries.ListNotificationsByUserID(c.Request.Context(), userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("通知一覧の取得に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知一覧の取得に失敗しました"})
			return
		}

		c.JSON(http.StatusOK, toNotificationResponses(notifications))
	}
}

// handleListUnread は認証済みユーザーの未読通知一覧を返すハンドラ。
func (s *Server) handleListUnread() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		notifications, err := s.queries.ListUnreadNotifications(c.Request.Context(), userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("未読通知一覧の取得に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "未読通知一覧の取得に失敗しました"})
			return
		}

		c.JSON(http.StatusOK, toNotificationResponses(notifications))
	}
}

// handleMarkAsRead は指定された通知を既読にするハンドラ。
func (s *Server) handleMarkAsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		notificationID := c.Param("id")

		// 通知の存在確認と所有者チェック
		n, err := s.queries.GetNotificationByID(c.Request.Context(), notificationID)
		if errors.Is(err, notificationdb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "通知が見つかりません"})
			return
		}
		if err != nil {
			s.logger.Error().Err(err).Str("id", notificationID).Msg("通知の取得に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の取得に失敗しました"})
			return
		}
		if n.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "この通知を操作する権限がありません"})
			return
		}

		if err := s.queries.MarkAsRead(c.Request.Context(), notificationID); err != nil {
			s.logger.Error().Err(err).Str("id", notificationID).Msg("通知の既読処理に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の既読処理に失敗しました"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "通知を既読にしました"})
	}
}

// handleMarkAllAsRead は認証済みユーザーの全通知を既読にするハンドラ。
func (s *Server) handleMarkAllAsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		updated, err := s.queries.MarkAllAsRead(c.Request.Context(), userID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("全通知の既読処理に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "全通知の既読処理に失敗しました"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "全通知を既読にしました", "updated": updated})
	}
}
