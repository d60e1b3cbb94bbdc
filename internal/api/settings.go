package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hestia/internal/billing"
	"hestia/internal/models"
	"hestia/internal/telegram"
)

func (h *Handler) GetCompany(c *gin.Context) {
	c.JSON(http.StatusOK, h.company.Get())
}

func (h *Handler) UpdateCompany(c *gin.Context) {
	var company models.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if strings.TrimSpace(company.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Company name is required"})
		return
	}

	if err := h.company.Update(company); err != nil {
		h.fail(c, err, "Failed to save company profile")
		return
	}
	c.JSON(http.StatusOK, company)
}

// GetTelegramConfig returns the current Telegram configuration
func (h *Handler) GetTelegramConfig(c *gin.Context) {
	config, err := h.db.GetTelegramConfig()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get Telegram config"})
		return
	}

	if config == nil {
		c.JSON(http.StatusOK, gin.H{
			"is_enabled": false,
			"chat_id":    "",
			"bot_token":  "",
		})
		return
	}

	// Only the last four characters of the token leave the server
	if len(config.BotToken) > 4 {
		config.BotToken = "••••" + config.BotToken[len(config.BotToken)-4:]
	}
	c.JSON(http.StatusOK, config)
}

// UpdateTelegramConfig validates the bot with a test message before saving it
func (h *Handler) UpdateTelegramConfig(c *gin.Context) {
	var request models.TelegramConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(request.BotToken) < 20 || !strings.Contains(request.BotToken, ":") {
		h.logger.Error("Invalid bot token format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot token format. Please check your bot token from @BotFather"})
		return
	}

	if request.ChatID == "" {
		h.logger.Error("Chat ID is required")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chat ID is required"})
		return
	}

	if request.IsEnabled {
		testService := telegram.NewService(h.logger)
		testService.UpdateConfig(&models.TelegramConfig{
			BotToken:  request.BotToken,
			ChatID:    request.ChatID,
			IsEnabled: true,
			APIURL:    h.telegramService.APIURL(),
		})

		testMessage := "🔔 Test notification from Hestia\n\nIf you see this message, billing run summaries will be delivered here."
		if err := testService.SendMessage(testMessage); err != nil {
			h.logger.WithError(err).Error("Failed to send test message")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.db.UpdateTelegramConfig(&request); err != nil {
		h.logger.WithError(err).Error("Failed to update Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save configuration to database"})
		return
	}

	if config, err := h.db.GetTelegramConfig(); err == nil && config != nil {
		config.APIURL = h.telegramService.APIURL()
		h.telegramService.UpdateConfig(config)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Telegram configuration updated successfully"})
}

// TestTelegramConfig sends a sample billing run summary with the saved configuration
func (h *Handler) TestTelegramConfig(c *gin.Context) {
	config, err := h.db.GetTelegramConfig()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get Telegram config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get Telegram configuration"})
		return
	}

	if config == nil || !config.IsEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Telegram is not configured or is disabled"})
		return
	}

	sample := billing.RunSummary{
		Date:      time.Now().UTC(),
		Generated: 3,
		Billed:    decimal.RequireFromString("6419.25"),
	}
	if err := h.telegramService.NotifyBillingRun(sample); err != nil {
		h.logger.WithError(err).Error("Failed to send test notification")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send test notification: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Test notification sent successfully"})
}
