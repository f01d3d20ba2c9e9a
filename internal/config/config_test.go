package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anonpost.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
[telegram]
token = "abc"
group_id = -100
channel_id = -200

[[topics]]
label = "Family"
thread_id = 2

[[topics]]
label = "Work"
thread_id = 3

[storage]
path = "/tmp/posts.json"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Telegram.Token)
	assert.Equal(t, int64(-100), cfg.Telegram.GroupID)
	assert.Equal(t, int64(-200), cfg.Telegram.ChannelID)
	require.Len(t, cfg.Topics, 2)
	assert.Equal(t, "Family", cfg.Topics[0].Label)
	assert.Equal(t, 2, cfg.Topics[0].ThreadID)
	assert.Equal(t, "/tmp/posts.json", cfg.Storage.Path)

	// Defaults survive partial files.
	assert.Equal(t, ":8090", cfg.Admin.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, Validate(cfg))
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, `
[telegram]
token = "abc"
group_id = -100
channel_id = -200
`)
	t.Setenv("ANONPOST_TELEGRAM__GROUP_ID", "-555")
	t.Setenv("ANONPOST_LOGGING__LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(-555), cfg.Telegram.GroupID)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateCatchesMissingFields(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, Validate(cfg))

	cfg.Telegram.Token = "abc"
	assert.ErrorContains(t, Validate(cfg), "group_id")

	cfg.Telegram.GroupID = -1
	assert.ErrorContains(t, Validate(cfg), "channel_id")

	cfg.Telegram.ChannelID = -2
	cfg.Storage.Path = "x"
	assert.NoError(t, Validate(cfg))

	cfg.Topics = []Topic{{Label: "A", ThreadID: 1}, {Label: "a", ThreadID: 2}}
	assert.ErrorContains(t, Validate(cfg), "duplicate")
}

func TestInitConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anonpost.toml")
	require.NoError(t, InitConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Topics)

	assert.Error(t, InitConfig(path))
}
