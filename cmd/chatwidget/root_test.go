package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/format"
	"github.com/germanamz/chatwidget/pkg/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadDotEnv_Missing(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	cfg, err := loadConfig(&rootOptions{
		configPath: filepath.Join(t.TempDir(), "chatwidget.yaml"),
		envFile:    filepath.Join(t.TempDir(), ".env"),
	})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_EnvFileAndOverrides(t *testing.T) {
	// Registers cleanup; godotenv only sets variables that are unset.
	t.Setenv("CHATWIDGET_BOT_HOST", "")
	require.NoError(t, os.Unsetenv("CHATWIDGET_BOT_HOST"))
	envPath := writeFile(t, ".env", "CHATWIDGET_BOT_HOST=bot.example.com\n")
	cfgPath := writeFile(t, "chatwidget.yaml", "endpoint: https://${CHATWIDGET_BOT_HOST}/chatbot\nwidget:\n  title: Helper\n")

	cfg, err := loadConfig(&rootOptions{configPath: cfgPath, envFile: envPath, logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "https://bot.example.com/chatbot", cfg.Endpoint)
	assert.Equal(t, "Helper", cfg.Widget.Title)
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg, err = loadConfig(&rootOptions{configPath: cfgPath, envFile: envPath, endpoint: "http://localhost:9000/chatbot"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/chatbot", cfg.Endpoint)
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	_, err := loadConfig(&rootOptions{
		configPath: filepath.Join(t.TempDir(), "chatwidget.yaml"),
		envFile:    filepath.Join(t.TempDir(), ".env"),
		endpoint:   "/chatbot",
	})
	require.Error(t, err)
}

func TestNewClient_SendsConfiguredHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chatwidget", r.Header.Get("X-Client"))
		_, _ = io.WriteString(w, `{"response":"ok"}`)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Endpoint = srv.URL
	cfg.Timeout = "5s"
	cfg.Headers = map[string]string{"X-Client": "chatwidget"}

	client, err := newClient(cfg, zerolog.Nop())
	require.NoError(t, err)

	reply, err := client.Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestNewClient_BadTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Timeout = "later"

	_, err := newClient(cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestWidgetConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RenderMarkdown = true

	wc := widgetConfig(cfg, zerolog.Nop())

	assert.Equal(t, cfg.Widget.Title, wc.Title)
	assert.Equal(t, cfg.Widget.Greeting, wc.Greeting)
	assert.Equal(t, cfg.Widget.NoResponseText, wc.NoResponseText)
	assert.Equal(t, cfg.Widget.ErrorText, wc.ErrorText)
	assert.Equal(t, cfg.Widget.Width, wc.Width)
	assert.True(t, wc.RenderMarkdown)
}

func TestDetectBackground(t *testing.T) {
	origQuery, origDark := hasDarkBackground, format.IsDarkBG
	t.Cleanup(func() { hasDarkBackground, format.IsDarkBG = origQuery, origDark })

	queried := 0
	hasDarkBackground = func() bool {
		queried++
		return false
	}

	cfg := config.Default()
	format.IsDarkBG = true
	detectBackground(cfg)
	assert.Zero(t, queried, "terminal queried without markdown rendering")
	assert.True(t, format.IsDarkBG)

	cfg.RenderMarkdown = true
	detectBackground(cfg)
	assert.Equal(t, 1, queried)
	assert.False(t, format.IsDarkBG)
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"endpoint", "log-file", "log-level"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	for _, name := range []string{"config", "env"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	sub, _, err := cmd.Find([]string{"init"})
	require.NoError(t, err)
	assert.Equal(t, "init", sub.Name())
}

func TestRunInit_RefusesToOverwrite(t *testing.T) {
	path := writeFile(t, "chatwidget.yaml", "endpoint: http://localhost/chatbot\n")

	err := runInit(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestValidateEndpoint(t *testing.T) {
	assert.NoError(t, validateEndpoint("http://localhost:5000/chatbot"))
	assert.NoError(t, validateEndpoint(" https://bot.example.com/chatbot "))
	assert.Error(t, validateEndpoint("/chatbot"))
	assert.Error(t, validateEndpoint("ftp://bot/chatbot"))
}

func TestValidateTimeout(t *testing.T) {
	assert.NoError(t, validateTimeout(""))
	assert.NoError(t, validateTimeout("30s"))
	assert.Error(t, validateTimeout("soon"))
	assert.Error(t, validateTimeout("-5s"))
}
