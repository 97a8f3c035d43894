package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nats-io/nats.go"
)

// subjectPrefix はペイロードを配信するNATSサブジェクトの接頭辞。
const subjectPrefix = "notifications."

// handleTimeout は1メッセージの処理に許す時間。
const handleTimeout = 5 * time.Second

// drainTimeout はCloseがNATS接続のドレイン完了を待つ時間。
const drainTimeout = 2 * handleTimeout

// Subject はサービス宛てのペイロードが配信されるNATSサブジェクトを返す。
func Subject(service string) string {
	return subjectPrefix + service
}

// Subscribe はNATSに接続し、登録済みの全サービスのサブジェクトを購読する。
// 接続はCloseでドレインされる。
func (s *Server) Subscribe(url string) error {
	drained := make(chan struct{})
	nc, err := nats.Connect(url,
		nats.Name("pushnotify-notification"),
		nats.MaxReconnects(-1),
		nats.DrainTimeout(drainTimeout),
		nats.ClosedHandler(func(*nats.Conn) {
			close(drained)
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.logger.Warn().Err(err).Msg("NATSから切断されました")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			s.logger.Info().Str("url", c.ConnectedUrl()).Msg("NATSに再接続しました")
		}),
	)
	if err != nil {
		return fmt.Errorf("NATS接続に失敗: %w", err)
	}

	services := make([]string, 0, len(s.decoders))
	for service := range s.decoders {
		services = append(services, service)
	}
	slices.Sort(services)

	for _, service := range services {
		if _, err := nc.Subscribe(Subject(service), s.natsHandler(service)); err != nil {
			nc.Close()
			return fmt.Errorf("%sの購読に失敗: %w", Subject(service), err)
		}
	}
	// SUBがサーバーに届いてから購読開始とみなす
	if err := nc.Flush(); err != nil {
		nc.Close()
		return fmt.Errorf("購読の確定に失敗: %w", err)
	}
	s.nc = nc
	s.drained = drained
	s.logger.Info().Strs("services", services).Str("url", url).Msg("NATSの購読を開始しました")
	return nil
}

// natsHandler はサービス宛てのNATSメッセージを処理するハンドラを返す。
// 不正なメッセージはログに記録して破棄する。
func (s *Server) natsHandler(service string) nats.MsgHandler {
	return func(msg *nats.Msg) {
		if err := s.handleMessage(service, msg.Data); err != nil {
			s.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("メッセージを破棄しました")
		}
	}
}

// handleMessage はNATSメッセージ本文をHTTPの受信リクエストと同じ形式として処理する。
func (s *Server) handleMessage(service string, data []byte) error {
	var req deliveryRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("メッセージの解析に失敗: %w", err)
	}
	if req.UserID == "" {
		return errors.New("user_idが空です")
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	_, err := s.receive(ctx, service, req)
	return err
}
