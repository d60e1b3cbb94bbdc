package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hestia/internal/billing"
	"hestia/internal/models"
)

const defaultAPIURL = "https://api.telegram.org"

type Service struct {
	logger *logrus.Logger
	client *http.Client
	mu     sync.RWMutex
	config *models.TelegramConfig
}

func NewService(logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		config: &models.TelegramConfig{},
	}
}

func (s *Service) UpdateConfig(config *models.TelegramConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = config
}

func (s *Service) currentConfig() models.TelegramConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return models.TelegramConfig{}
	}
	return *s.config
}

// APIURL is the Bot API endpoint override, empty for the public API
func (s *Service) APIURL() string {
	return s.currentConfig().APIURL
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	cfg := s.currentConfig()
	if !cfg.IsEnabled {
		return nil
	}

	if cfg.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}

	if cfg.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(apiURL, "/"), cfg.BotToken)
	payload := map[string]interface{}{
		"chat_id":    cfg.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// FormatBillingRun renders the chat message for a finished billing run
func FormatBillingRun(summary billing.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Billing run %s</b>\n\n", html.EscapeString(summary.Date.Format("2006-01-02")))
	fmt.Fprintf(&b, "🧾 Statements: %d\n", summary.Generated)
	fmt.Fprintf(&b, "💰 Billed: $%s\n", summary.Billed.StringFixed(2))
	if len(summary.Failed) > 0 {
		ids := make([]string, len(summary.Failed))
		for i, id := range summary.Failed {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(&b, "⚠️ Failed leaseholders: %s\n", strings.Join(ids, ", "))
	}
	return b.String()
}

// NotifyBillingRun sends the summary of a billing run
func (s *Service) NotifyBillingRun(summary billing.RunSummary) error {
	if !s.currentConfig().IsEnabled {
		return nil
	}
	s.logger.WithField("generated", summary.Generated).Debug("Sending billing run notification")
	return s.SendMessage(FormatBillingRun(summary))
}
