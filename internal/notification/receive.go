package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	notificationdb "github.com/nao1215/pushnotify/internal/notification/db"
	"github.com/nao1215/pushnotify/pkg/notification"
)

// errUnknownService はデコーダーが登録されていないサービス宛てのペイロードを表す。
var errUnknownService = errors.New("未登録のサービスです")

// deliveryRequest はプッシュ中継から届くペイロードの受信リクエスト。
type deliveryRequest struct {
	// UserID は通知先のユーザーID。
	UserID string `json:"user_id" binding:"required"`
	// Payload はOSから届いたままの不透明な文字列。空でもよい。
	Payload string `json:"payload"`
}

// receiptResponse は受信したペイロードのデコード結果。
type receiptResponse struct {
	ID      string `json:"id"`
	Service string `json:"service"`
	Type    string `json:"type"`
	Known   bool   `json:"known"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// receive はペイロードをサービスのデコーダーで解釈し、表示文言を付けて保存する。
// デコードは失敗しないため、エラーになるのは未登録サービスか保存失敗の場合のみ。
func (s *Server) receive(ctx context.Context, service string, req deliveryRequest) (receiptResponse, error) {
	decoder, ok := s.decoders[service]
	if !ok {
		return receiptResponse{}, fmt.Errorf("%w: %s", errUnknownService, service)
	}

	n := decoder.Decode(req.Payload)
	alert := notification.Render(n)
	known := !notification.IsUnknown(n)
	s.decodeMetrics.observe(service, n, known)

	r := receiptResponse{
		ID:      uuid.New().String(),
		Service: service,
		Type:    string(n.NotificationType()),
		Known:   known,
		Title:   alert.Title,
		Message: alert.Body,
	}

	if err := s.queries.CreateNotification(ctx, notificationdb.CreateNotificationParams{
		ID:      r.ID,
		UserID:  req.UserID,
		Service: service,
		Type:    r.Type,
		Known:   known,
		Title:   r.Title,
		Message: r.Message,
		Payload: req.Payload,
	}); err != nil {
		return receiptResponse{}, fmt.Errorf("通知の保存に失敗: %w", err)
	}

	s.logger.Debug().
		Str("id", r.ID).
		Str("service", service).
		Str("type", r.Type).
		Bool("known", known).
		Msg("ペイロードを受信しました")
	return r, nil
}

// handleReceive はペイロードを受信して通知を作成する内部APIハンドラ。
func (s *Server) handleReceive() gin.HandlerFunc {
	return func(c *gin.Context) {
		service := c.Param("service")
		if _, ok := s.decoders[service]; !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "サービスが見つかりません"})
			return
		}

		var req deliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です: " + err.Error()})
			return
		}

		r, err := s.receive(c.Request.Context(), service, req)
		if err != nil {
			s.logger.Error().Err(err).Str("service", service).Msg("ペイロードの受信に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知の作成に失敗しました"})
			return
		}

		c.JSON(http.StatusCreated, r)
	}
}

// typeCountResponse は判別子ごとの集計結果。
type typeCountResponse struct {
	Type  string `json:"type"`
	Known bool   `json:"known"`
	Count int64  `json:"count"`
}

// handleStats はサービスのデコード回数と判別子ごとの保存件数を返すハンドラ。
func (s *Server) handleStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		service := c.Param("service")
		decoder, ok := s.decoders[service]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "サービスが見つかりません"})
			return
		}

		counts, err := s.queries.CountByServiceType(c.Request.Context(), service)
		if err != nil {
			s.logger.Error().Err(err).Str("service", service).Msg("通知件数の集計に失敗")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "通知件数の集計に失敗しました"})
			return
		}

		types := make([]typeCountResponse, 0, len(counts))
		for _, tc := range counts {
			types = append(types, typeCountResponse(tc))
		}

		c.JSON(http.StatusOK, gin.H{
			"service": service,
			"calls":   callsOf(decoder),
			"types":   types,
		})
	}
}

// callsOf はデコーダーが呼び出し回数を公開していればその値を返す。
func callsOf(d notification.Decoder) int64 {
	if counter, ok := d.(interface{ Calls() int64 }); ok {
		return counter.Calls()
	}
	return 0
}

// decodeMetrics はデコード結果をサービスと判別子ごとに数える。
type decodeMetrics struct {
	decoded *prometheus.CounterVec
}

func newDecodeMetrics(reg prometheus.Registerer) *decodeMetrics {
	m := &decodeMetrics{
		decoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_decode_total",
			Help: "Total number of decoded push payloads.",
		}, []string{"service", "type", "known"}),
	}
	reg.MustRegister(m.decoded)
	return m
}

// observe はデコード結果を1件記録する。
// 未知の判別子は送信元が自由に決められるため、ラベル値は "unknown" にまとめる。
func (m *decodeMetrics) observe(service string, n notification.Notification, known bool) {
	typ := "unknown"
	if known {
		typ = string(n.NotificationType())
	}
	m.decoded.WithLabelValues(service, typ, strconv.FormatBool(known)).Inc()
}
