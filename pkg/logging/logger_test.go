package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("JSON形式でレベル以上のログのみ出力すること", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		l, err := New(&buf, "warn", "json")
		require.NoError(t, err)

		l.Info().Msg("出力されない")
		l.Warn().Str("key", "value").Msg("出力される")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, "出力される", entry["message"])
		assert.Equal(t, "value", entry["key"])
		assert.Contains(t, entry, "time")
	})

	t.Run("不正なレベルはエラーになること", func(t *testing.T) {
		t.Parallel()

		_, err := New(&bytes.Buffer{}, "verbose", "json")
		require.Error(t, err)
	})

	t.Run("console形式ではJSON以外で出力すること", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		l, err := New(&buf, "info", "console")
		require.NoError(t, err)

		l.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
		assert.False(t, json.Valid(buf.Bytes()))
	})
}

func TestComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := New(&buf, "info", "json")
	require.NoError(t, err)

	c := Component(l, "decoder")
	c.Info().Msg("x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "decoder", entry["cmp"])
}
