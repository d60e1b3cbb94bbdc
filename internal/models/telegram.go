package models

import "time"

// TelegramConfig holds the bot credentials used for billing run notifications
type TelegramConfig struct {
	IsEnabled bool      `json:"is_enabled"`
	BotToken  string    `json:"bot_token"`
	ChatID    string    `json:"chat_id"`
	UpdatedAt time.Time `json:"updated_at"`
	// APIURL overrides https://api.telegram.org
	APIURL string `json:"-"`
}

// TelegramConfigRequest is used when updating the configuration
type TelegramConfigRequest struct {
	IsEnabled bool   `json:"is_enabled"`
	BotToken  string `json:"bot_token"`
	ChatID    string `json:"chat_id"`
}
