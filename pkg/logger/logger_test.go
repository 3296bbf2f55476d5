package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLoggerWithWriter(&buf, "pedidos-test", "debug")
	require.NoError(t, err)

	log.Info("pedido criado", "order_id", "abc", "total", 12)

	assert.Contains(t, buf.String(), "pedido criado order_id=abc total=12")
	assert.Contains(t, buf.String(), "INFO")
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLoggerWithWriter(&buf, "pedidos-level", "warning")
	require.NoError(t, err)

	log.Debug("invisível")
	log.Info("invisível")
	log.Warn("visível")

	assert.NotContains(t, buf.String(), "invisível")
	assert.Contains(t, buf.String(), "visível")
}

func TestLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger("pedidos-invalid", "verbose")
	assert.Error(t, err)
}

func TestFormatOddPairs(t *testing.T) {
	assert.Equal(t, "msg a=1 b", format("msg", []interface{}{"a", 1, "b"}))
	assert.Equal(t, "msg", format("msg", nil))
}
