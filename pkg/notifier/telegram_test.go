package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vunguyen00/Netflix/pkg/config"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewTelegramNotifier(&config.TelegramConfig{
		Enabled:  true,
		BotToken: "token",
		ChatID:   "42",
		Timeout:  5,
		APIBase:  srv.URL,
	})
}

func TestPoolExhaustedSendsMessage(t *testing.T) {
	var got TelegramMessage
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, n.PoolExhausted(context.Background(), "order-1", 3))
	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "Markdown", got.ParseMode)
	assert.Contains(t, got.Text, "order-1")
	assert.Contains(t, got.Text, "3")
}

func TestSendMessageAPIError(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found","error_code":400}`))
	})

	err := n.LowStock(context.Background(), 1, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendMessageDisabled(t *testing.T) {
	n := NewTelegramNotifier(&config.TelegramConfig{Enabled: false})
	assert.NoError(t, n.SendMessage(context.Background(), "hello"))
	assert.Error(t, n.TestConnection(context.Background()))
}

func TestValidateConfig(t *testing.T) {
	n := NewTelegramNotifier(&config.TelegramConfig{Enabled: true, BotToken: "t"})
	assert.Error(t, n.ValidateConfig())

	n = NewTelegramNotifier(&config.TelegramConfig{Enabled: true, BotToken: "t", ChatID: "1"})
	assert.NoError(t, n.ValidateConfig())
}
