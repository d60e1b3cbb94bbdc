package database

import (
	"database/sql"
	"fmt"
	"time"

	"hestia/internal/models"
)

// GetTelegramConfig returns the stored notification settings, or nil when none were saved
func (d *Database) GetTelegramConfig() (*models.TelegramConfig, error) {
	var config models.TelegramConfig
	var updatedAt string
	err := d.db.QueryRow(`
		SELECT is_enabled, bot_token, chat_id, updated_at
		FROM telegram_config
		WHERE id = 1
	`).Scan(&config.IsEnabled, &config.BotToken, &config.ChatID, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query telegram config: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		config.UpdatedAt = t
	}
	return &config, nil
}

func (d *Database) UpdateTelegramConfig(request *models.TelegramConfigRequest) error {
	_, err := d.db.Exec(`
		INSERT INTO telegram_config (id, is_enabled, bot_token, chat_id, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_enabled = excluded.is_enabled,
			bot_token = excluded.bot_token,
			chat_id = excluded.chat_id,
			updated_at = excluded.updated_at
	`, request.IsEnabled, request.BotToken, request.ChatID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to update telegram config: %w", err)
	}
	return nil
}
