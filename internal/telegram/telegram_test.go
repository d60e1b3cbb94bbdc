package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hestia/internal/billing"
	"hestia/internal/models"
)

func summary() billing.RunSummary {
	return billing.RunSummary{
		Date:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Generated: 2,
		Failed:    []int64{7},
		Billed:    decimal.RequireFromString("4493.5"),
	}
}

func TestFormatBillingRun(t *testing.T) {
	msg := FormatBillingRun(summary())
	assert.Contains(t, msg, "Billing run 2024-04-01")
	assert.Contains(t, msg, "Statements: 2")
	assert.Contains(t, msg, "$4493.50")
	assert.Contains(t, msg, "Failed leaseholders: 7")
}

func TestNotifyBillingRun(t *testing.T) {
	var got map[string]interface{}
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewService(logrus.New())
	s.UpdateConfig(&models.TelegramConfig{IsEnabled: true, BotToken: "token", ChatID: "42", APIURL: server.URL})

	require.NoError(t, s.NotifyBillingRun(summary()))
	assert.Equal(t, "/bottoken/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Contains(t, got["text"], "Statements: 2")
}

func TestSendMessageErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := NewService(nil)

	// disabled is a no-op
	assert.NoError(t, s.SendMessage("hello"))

	s.UpdateConfig(&models.TelegramConfig{IsEnabled: true, ChatID: "42"})
	assert.Error(t, s.SendMessage("hello"))

	s.UpdateConfig(&models.TelegramConfig{IsEnabled: true, BotToken: "token"})
	assert.Error(t, s.SendMessage("hello"))

	s.UpdateConfig(&models.TelegramConfig{IsEnabled: true, BotToken: "token", ChatID: "42", APIURL: server.URL})
	err := s.SendMessage("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid bot token")
}
