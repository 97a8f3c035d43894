// 通知サービスのエントリポイント。
// プッシュ中継から届くペイロードをサービスごとにデコードし、
// ユーザー向けの通知として保存・配信する。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/pushnotify/internal/config"
	"github.com/nao1215/pushnotify/internal/notification"
	"github.com/nao1215/pushnotify/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "通知サービスの起動に失敗: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := notification.NewServer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("通知サーバーの初期化に失敗: %w", err)
	}
	defer func() {
		if err := server.Close(); err != nil {
			logger.Error().Err(err).Msg("通知サーバーの終了処理に失敗")
		}
	}()

	if cfg.NATSURL != "" {
		if err := server.Subscribe(cfg.NATSURL); err != nil {
			return err
		}
	}

	logger.Info().
		Str("port", cfg.Port).
		Strs("services", cfg.Services).
		Msg("通知サービスを起動します")
	return server.Run(ctx)
}
