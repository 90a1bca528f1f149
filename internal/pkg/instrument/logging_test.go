package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestLogger_MasksSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "shepherd", "info", nil, []string{"phone", "api_key"}))

	logger.Info("consume: visitor assigned",
		"phone", "+962790000000",
		"msg_body", `{"visitor_id":"7","phone":"0790000000"}`,
		"headers", map[string]string{"api_key": "secret", "accept": "json"},
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "***", line["phone"])
	assert.JSONEq(t, `{"visitor_id":"7","phone":"***"}`, line["msg_body"].(string))
	assert.Equal(t, map[string]any{"api_key": "***", "accept": "json"}, line["headers"])
	assert.Equal(t, "shepherd", line["service"])
	assert.Equal(t, "INFO", line["severity"])
}

func TestLogger_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "shepherd", "debug", nil, nil))

	ctx := SetCorrelationID(context.Background(), "cid-123")
	logger.DebugContext(ctx, "dispatch")

	line := decodeLine(t, &buf)
	assert.Equal(t, "cid-123", line["_cID"])
	assert.Contains(t, line, "ts")
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "shepherd", "warn", nil, nil))

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel(" ERROR "))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
