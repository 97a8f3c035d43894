package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	t.Run("環境変数が未設定の場合はデフォルト値になること", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFrom(map[string]string{})
		require.NoError(t, err)

		assert.Equal(t, "8086", cfg.Port)
		assert.Equal(t, "/data/notification.db", cfg.DBPath)
		assert.Equal(t, "dev-secret-key", cfg.JWTSecret)
		assert.Equal(t, []string{"email", "telephony", "vault", "vpn"}, cfg.Services)
		assert.Empty(t, cfg.NATSURL)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Empty(t, cfg.CORSAllowedOrigins)
	})

	t.Run("環境変数の値が反映されること", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFrom(map[string]string{
			"PORT":                 "9000",
			"DB_PATH":              ":memory:",
			"JWT_SECRET":           "s3cret",
			"SERVICES":             " email , vpn ,",
			"NATS_URL":             "nats://localhost:4222",
			"LOG_LEVEL":            "debug",
			"LOG_FORMAT":           "console",
			"CORS_ALLOWED_ORIGINS": "http://localhost:3000, https://example.com",
		})
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, ":memory:", cfg.DBPath)
		assert.Equal(t, "s3cret", cfg.JWTSecret)
		assert.Equal(t, []string{"email", "vpn"}, cfg.Services)
		assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "console", cfg.LogFormat)
		assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.CORSAllowedOrigins)
	})

	t.Run("未知のサービス名はエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFrom(map[string]string{"SERVICES": "email,fax"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fax")
	})

	t.Run("不正なログ形式はエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFrom(map[string]string{"LOG_FORMAT": "xml"})
		require.Error(t, err)
	})

	t.Run("サービスが空の場合はエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFrom(map[string]string{"SERVICES": " , "})
		require.Error(t, err)
	})
}
