// Package notifier sends operator alerts to a Telegram chat.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
)

// TelegramNotifier handles Telegram notifications
type TelegramNotifier struct {
	config     *config.TelegramConfig
	httpClient *http.Client
}

// TelegramMessage represents a message to be sent via Telegram
type TelegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// TelegramResponse represents Telegram API response
type TelegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(cfg *config.TelegramConfig) *TelegramNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10
	}
	return &TelegramNotifier{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

// SendMessage sends a message via Telegram
func (t *TelegramNotifier) SendMessage(ctx context.Context, message string) error {
	if !t.config.Enabled {
		logger.Debug("Telegram notifications disabled")
		return nil
	}

	if t.config.BotToken == "" || t.config.ChatID == "" {
		logger.Warn("Telegram bot token or chat ID not configured")
		return fmt.Errorf("telegram bot token or chat ID not configured")
	}

	return t.sendTelegramMessage(ctx, &TelegramMessage{
		ChatID:    t.config.ChatID,
		Text:      message,
		ParseMode: "Markdown",
	})
}

// PoolExhausted alerts that a warranty run found no live replacement
func (t *TelegramNotifier) PoolExhausted(ctx context.Context, orderID string, inspected int) error {
	message := fmt.Sprintf("🚨 *Replacement pool exhausted*\n\n"+
		"🧾 *Order:* `%s`\n"+
		"🔍 *Candidates inspected:* %d\n"+
		"⏰ *Time:* %s",
		orderID, inspected, time.Now().Format("2006-01-02 15:04:05"))
	return t.SendMessage(ctx, message)
}

// LowStock alerts that the pool fell below threshold
func (t *TelegramNotifier) LowStock(ctx context.Context, available int64, threshold int) error {
	message := fmt.Sprintf("⚠️ *Account pool running low*\n\n"+
		"📦 *Available:* %d\n"+
		"📉 *Threshold:* %d\n"+
		"⏰ *Time:* %s",
		available, threshold, time.Now().Format("2006-01-02 15:04:05"))
	return t.SendMessage(ctx, message)
}

// sendTelegramMessage sends message to Telegram API
func (t *TelegramNotifier) sendTelegramMessage(ctx context.Context, message *TelegramMessage) error {
	base := strings.TrimRight(t.config.APIBase, "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", base, t.config.BotToken)

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("Sending Telegram message",
		zap.String("chat_id", message.ChatID),
		zap.String("text", message.Text[:min(100, len(message.Text))]))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var telegramResp TelegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&telegramResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !telegramResp.OK {
		return fmt.Errorf("telegram API error: %s (code: %d)", telegramResp.Description, telegramResp.ErrorCode)
	}

	logger.Info("Telegram message sent successfully")
	return nil
}

// ValidateConfig validates Telegram configuration
func (t *TelegramNotifier) ValidateConfig() error {
	if !t.config.Enabled {
		return nil
	}

	if t.config.BotToken == "" {
		return fmt.Errorf("telegram bot token is required when enabled")
	}

	if t.config.ChatID == "" {
		return fmt.Errorf("telegram chat ID is required when enabled")
	}

	return nil
}

// TestConnection tests Telegram bot connection
func (t *TelegramNotifier) TestConnection(ctx context.Context) error {
	if !t.config.Enabled {
		return fmt.Errorf("telegram notifications are disabled")
	}

	return t.SendMessage(ctx, "✅ *Warranty service*\n\nTelegram alerts are working!")
}
