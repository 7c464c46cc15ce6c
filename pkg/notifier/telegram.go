package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages through the Telegram Bot API
type TelegramNotifier struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
}

// NewTelegramNotifier creates a new TelegramNotifier for the given bot token
func NewTelegramNotifier(botToken string) *TelegramNotifier {
	return &TelegramNotifier{
		baseURL:  telegramAPIBase,
		botToken: botToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Notify sends a text message to a chat via the sendMessage method
func (n *TelegramNotifier) Notify(ctx context.Context, chatID, text string) error {
	requestBody := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
