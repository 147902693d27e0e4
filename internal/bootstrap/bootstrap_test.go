package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-yob/internal/bot"
	"go-yob/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DISCORD_TOKEN", "TOKEN", "COMMAND_PREFIX", "LOG_LEVEL", "LOG_FILE", "MESSAGE_CACHE_SIZE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestInitializeWiresComponents(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.json")
	logPath := filepath.Join(dir, "yob.log")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"bot":{"prefix":"! "},"logging":{"file":"`+logPath+`"}}`), 0o600))
	t.Setenv("DISCORD_TOKEN", "test-token")

	b := New(Options{ConfigPath: cfgPath, LogLevel: "debug"})
	require.NoError(t, b.Initialize())

	assert.Equal(t, "! ", b.Config.Bot.Prefix)
	assert.Equal(t, "debug", b.Config.Logging.Level)

	c := b.Components
	require.NotNil(t, c)
	assert.NotNil(t, c.Session)
	assert.NotNil(t, c.Queue)
	assert.NotNil(t, c.Gate)
	assert.False(t, c.Destination.IsSet())
	assert.Equal(t, config.DefaultConfig().Network.HTTPPoolSize, c.HTTPPool.Size())
	assert.Equal(t, bot.Intents, c.Session.GetDiscord().Identify.Intents)
	assert.True(t, c.Session.GetDiscord().SyncEvents)
	assert.Equal(t, config.DefaultConfig().Bot.MessageCacheSize, c.Session.GetDiscord().State.MaxMessageCount)

	require.NoError(t, b.Shutdown())
	assert.FileExists(t, logPath)
}

func TestInitializeWithoutConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("TOKEN", "fallback-token")
	t.Setenv("LOG_FILE", "")

	b := New(Options{ConfigPath: filepath.Join(dir, "missing.json")})
	require.NoError(t, b.Initialize())
	assert.Equal(t, "fallback-token", b.Config.Bot.Token)
	require.NoError(t, b.Shutdown())
}

func TestInitializeRequiresToken(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	b := New(Options{ConfigPath: filepath.Join(dir, "missing.json")})
	err := b.Initialize()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingToken)
}

func TestInitializeRejectsBrokenConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"bot":`), 0o600))
	t.Setenv("DISCORD_TOKEN", "test-token")

	err := New(Options{ConfigPath: cfgPath}).Initialize()
	assert.Error(t, err)
}

func TestStartRequiresInitialize(t *testing.T) {
	assert.Error(t, New(Options{}).Start(context.Background()))
}
