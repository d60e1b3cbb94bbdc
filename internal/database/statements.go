package database

import (
	"errors"
	"fmt"

	"hestia/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InsertStatement stores rec inside tx, so the caller can roll it back
// together with other work such as writing the PDF.
func (d *Database) InsertStatement(tx *gorm.DB, rec *models.StatementRecord) error {
	if tx == nil {
		tx = d.gorm
	}
	if err := tx.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to insert statement: %w", err)
	}
	return nil
}

func (d *Database) GetStatement(id int64) (models.StatementRecord, error) {
	var rec models.StatementRecord
	err := d.gorm.First(&rec, "statement_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("failed to query statement: %w", err)
	}
	return rec, nil
}

// ListStatements returns a leaseholder's statements, newest first
func (d *Database) ListStatements(leaseholderID int64) ([]models.StatementRecord, error) {
	records := []models.StatementRecord{}
	err := d.gorm.
		Where("leaseholder_id = ?", leaseholderID).
		Order("statement_date DESC, statement_id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query statements: %w", err)
	}
	return records, nil
}

func (d *Database) UpdateStatementPayment(id int64, amountPaid decimal.Decimal) error {
	res := d.gorm.Model(&models.StatementRecord{}).
		Where("statement_id = ?", id).
		Update("amount_paid", amountPaid.String())
	if res.Error != nil {
		return fmt.Errorf("failed to update statement payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStatement removes the record and returns it so the caller can clean up the document
func (d *Database) DeleteStatement(id int64) (models.StatementRecord, error) {
	var rec models.StatementRecord
	err := d.gorm.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "statement_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.StatementRecord{}, "statement_id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("failed to delete statement: %w", err)
	}
	return rec, nil
}
