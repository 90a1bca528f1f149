package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  name: shepherd
  timeout: 15
chat:
  base_url: "https://chat.example.test"
  timeout_seconds: 10
modules:
  notification:
    consumer_names: "visitor_assigned_notification, member_joined_notification,"
mail:
  headers: "X-Org:shepherd,X-Env:test"
  key: "c2VjcmV0"
`

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "shepherd", cfg.GetString("app.name"))
	assert.Equal(t, 15*time.Second, cfg.GetSecond("app.timeout"))
	assert.Equal(t, 10, cfg.GetInt("chat.timeout_seconds"))
	assert.Equal(t, []string{"visitor_assigned_notification", "member_joined_notification"},
		cfg.GetArray("modules.notification.consumer_names"))
	assert.Equal(t, map[string]string{"X-Org": "shepherd", "X-Env": "test"}, cfg.GetMap("mail.headers"))
	assert.Equal(t, []byte("secret"), cfg.GetBinary("mail.key"))
	assert.Nil(t, cfg.GetArray("missing.key"))
	assert.NoError(t, cfg.Close())
}

func TestNewViperFromBytes_MissingType(t *testing.T) {
	_, err := NewViperFromBytes(" ", []byte(sampleYAML))
	assert.ErrorIs(t, err, ErrConfigType)
}

func TestNewViper_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	t.Setenv("CHAT_BASE_URL", "https://override.example.test")

	cfg, err := NewViper(path)
	require.NoError(t, err)

	assert.Equal(t, "https://override.example.test", cfg.GetString("chat.base_url"))
	assert.Equal(t, "shepherd", cfg.GetString("app.name"))
}
