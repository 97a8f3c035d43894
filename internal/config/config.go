// Package config は通知サービスの設定を環境変数から読み込む。
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/nao1215/pushnotify/pkg/notification"
)

// Config は通知サービスの設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string `env:"PORT" envDefault:"8086"`
	// DBPath はSQLiteデータベースファイルのパス。
	DBPath string `env:"DB_PATH" envDefault:"/data/notification.db"`
	// JWTSecret はJWTの署名検証に使う共有鍵。
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-key"`
	// Services はデコーダーを用意するサービス名の一覧。
	Services []string `env:"SERVICES" envDefault:"email,telephony,vault,vpn" envSeparator:","`
	// NATSURL はペイロードを購読するNATSサーバーのURL。空の場合は購読しない。
	NATSURL string `env:"NATS_URL"`
	// LogLevel はログレベル。
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFormat はログの出力形式（json または console）。
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	// CORSAllowedOrigins はクロスオリジンリクエストを許可するオリジン。
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Load はプロセスの環境変数から設定を読み込む。
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom は指定したマップを環境変数として設定を読み込む。
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("環境変数の解析に失敗: %w", err)
	}
	cfg.Services = trimCSV(cfg.Services)
	cfg.CORSAllowedOrigins = trimCSV(cfg.CORSAllowedOrigins)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値を検証する。
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORTが空です"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRETが空です"))
	}
	if len(c.Services) == 0 {
		errs = append(errs, errors.New("SERVICESが空です"))
	}
	known := notification.Services()
	for _, s := range c.Services {
		if !slices.Contains(known, s) {
			errs = append(errs, fmt.Errorf("未知のサービス名: %q", s))
		}
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMATはjsonまたはconsoleである必要があります: %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// trimCSV はカンマ区切りで分割された値から空要素と前後の空白を取り除く。
func trimCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
