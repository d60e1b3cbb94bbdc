package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hestia/internal/expenses"
	"hestia/internal/fees"
	"hestia/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a row looked up by id does not exist
var ErrNotFound = errors.New("not found")

// ErrCorruptRecord is returned when a stored row can no longer be decoded
var ErrCorruptRecord = errors.New("corrupt stored record")

type Database struct {
	db   *sql.DB
	gorm *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	// Statement records go through gorm on the same pool
	gdb, err := gorm.Open(sqlite.New(sqlite.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &Database{db: db, gorm: gdb}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// Gorm returns the gorm handle sharing this database's connection pool
func (d *Database) Gorm() *gorm.DB {
	return d.gorm
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func parseDate(s string) (time.Time, error) {
	t, err := expenses.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed stored date %q: %w", s, err)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	return t.Format(expenses.DateLayout)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Properties

const propertyColumns = `id, name, street, city, state, zip_code, property_tax, business_insurance, num_units`

func scanProperty(row rowScanner) (models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Address.Street,
		&p.Address.City,
		&p.Address.State,
		&p.Address.ZipCode,
		&p.PropertyTax,
		&p.BusinessInsurance,
		&p.NumUnits,
	)
	return p, err
}

func (d *Database) AddProperty(p models.Property) (int64, error) {
	res, err := d.db.Exec(`
		INSERT INTO properties (name, street, city, state, zip_code, property_tax, business_insurance, num_units)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.Name, p.Address.Street, p.Address.City, p.Address.State, p.Address.ZipCode,
		p.PropertyTax.String(), p.BusinessInsurance.String(), p.NumUnits,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property: %w", err)
	}
	return res.LastInsertId()
}

func (d *Database) UpdateProperty(p models.Property) error {
	res, err := d.db.Exec(`
		UPDATE properties
		SET name = ?, street = ?, city = ?, state = ?, zip_code = ?,
		    property_tax = ?, business_insurance = ?, num_units = ?
		WHERE id = ?
	`,
		p.Name, p.Address.Street, p.Address.City, p.Address.State, p.Address.ZipCode,
		p.PropertyTax.String(), p.BusinessInsurance.String(), p.NumUnits, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return checkAffected(res)
}

func (d *Database) GetProperty(id int64) (models.Property, error) {
	p, err := scanProperty(d.db.QueryRow(`SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return models.Property{}, ErrNotFound
	}
	if err != nil {
		return models.Property{}, fmt.Errorf("failed to query property: %w", err)
	}
	return p, nil
}

func (d *Database) ListProperties() ([]models.Property, error) {
	rows, err := d.db.Query(`SELECT ` + propertyColumns + ` FROM properties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Leaseholders and leases

const leaseholderQuery = `
	SELECT
		h.id, h.property_id, h.kind,
		COALESCE(h.first_name, ''), COALESCE(h.last_name, ''), COALESCE(h.company_name, ''),
		COALESCE(h.tax_id, ''),
		h.street, h.city, h.state, h.zip_code, h.email, h.phone,
		h.move_in_date,
		l.id, l.start_date, l.end_date, l.fee_structure, l.payment_method
	FROM leaseholders h
	JOIN leases l ON l.id = h.lease_id
`

func scanLeaseholder(row rowScanner) (models.Leaseholder, error) {
	var h models.Leaseholder
	var kind, moveIn, start, end, feeStructure string

	err := row.Scan(
		&h.ID, &h.PropertyID, &kind,
		&h.FirstName, &h.LastName, &h.CompanyName,
		&h.TaxID,
		&h.Contact.RemitTo.Street, &h.Contact.RemitTo.City, &h.Contact.RemitTo.State, &h.Contact.RemitTo.ZipCode,
		&h.Contact.Email, &h.Contact.Phone,
		&moveIn,
		&h.Lease.ID, &start, &end, &feeStructure, &h.Lease.PaymentMethod,
	)
	if err != nil {
		return h, err
	}
	h.Kind = models.LeaseholderKind(kind)

	if h.MoveInDate, err = parseDate(moveIn); err != nil {
		return h, err
	}
	if h.Lease.StartDate, err = parseDate(start); err != nil {
		return h, err
	}
	if h.Lease.EndDate, err = parseDate(end); err != nil {
		return h, err
	}
	if h.Lease.Fees, err = fees.Parse(feeStructure); err != nil {
		return h, fmt.Errorf("%w: lease %d: %v", ErrCorruptRecord, h.Lease.ID, err)
	}
	return h, nil
}

func insertLease(tx *sql.Tx, lease models.Lease) (int64, error) {
	if lease.Fees == nil {
		return 0, fmt.Errorf("lease has no fee structure: %w", fees.ErrMalformedFeeStructure)
	}
	res, err := tx.Exec(`
		INSERT INTO leases (start_date, end_date, fee_structure, payment_method)
		VALUES (?, ?, ?, ?)
	`, formatDate(lease.StartDate), formatDate(lease.EndDate), fees.Encode(lease.Fees), lease.PaymentMethod)
	if err != nil {
		return 0, fmt.Errorf("failed to insert lease: %w", err)
	}
	return res.LastInsertId()
}

// AddLeaseholder inserts the lease and then the leaseholder referencing it
func (d *Database) AddLeaseholder(h models.Leaseholder) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	leaseID, err := insertLease(tx, h.Lease)
	if err != nil {
		return 0, err
	}

	res, err := tx.Exec(`
		INSERT INTO leaseholders
		(property_id, lease_id, kind, first_name, last_name, company_name, tax_id,
		 street, city, state, zip_code, email, phone, move_in_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		h.PropertyID, leaseID, string(h.Kind), h.FirstName, h.LastName, h.CompanyName, h.TaxID,
		h.Contact.RemitTo.Street, h.Contact.RemitTo.City, h.Contact.RemitTo.State, h.Contact.RemitTo.ZipCode,
		h.Contact.Email, h.Contact.Phone, formatDate(h.MoveInDate),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert leaseholder: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// UpdateLeaseholder updates contact details; the lease is changed with ReplaceLease
func (d *Database) UpdateLeaseholder(h models.Leaseholder) error {
	res, err := d.db.Exec(`
		UPDATE leaseholders
		SET kind = ?, first_name = ?, last_name = ?, company_name = ?, tax_id = ?,
		    street = ?, city = ?, state = ?, zip_code = ?, email = ?, phone = ?, move_in_date = ?
		WHERE id = ?
	`,
		string(h.Kind), h.FirstName, h.LastName, h.CompanyName, h.TaxID,
		h.Contact.RemitTo.Street, h.Contact.RemitTo.City, h.Contact.RemitTo.State, h.Contact.RemitTo.ZipCode,
		h.Contact.Email, h.Contact.Phone, formatDate(h.MoveInDate), h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leaseholder: %w", err)
	}
	return checkAffected(res)
}

// ReplaceLease stores a new lease for the leaseholder. The previous lease row
// is kept so statements already issued still refer to their terms.
func (d *Database) ReplaceLease(leaseholderID int64, lease models.Lease) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	leaseID, err := insertLease(tx, lease)
	if err != nil {
		return 0, err
	}

	res, err := tx.Exec(`UPDATE leaseholders SET lease_id = ? WHERE id = ?`, leaseID, leaseholderID)
	if err != nil {
		return 0, fmt.Errorf("failed to update leaseholder lease: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return leaseID, nil
}

func (d *Database) GetLeaseholder(id int64) (models.Leaseholder, error) {
	h, err := scanLeaseholder(d.db.QueryRow(leaseholderQuery+` WHERE h.id = ?`, id))
	if err == sql.ErrNoRows {
		return models.Leaseholder{}, ErrNotFound
	}
	if err != nil {
		return models.Leaseholder{}, fmt.Errorf("failed to query leaseholder: %w", err)
	}
	return h, nil
}

func (d *Database) queryLeaseholders(query string, args ...interface{}) ([]models.Leaseholder, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaseholders: %w", err)
	}
	defer rows.Close()

	leaseholders := []models.Leaseholder{}
	for rows.Next() {
		h, err := scanLeaseholder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaseholder: %w", err)
		}
		leaseholders = append(leaseholders, h)
	}
	return leaseholders, rows.Err()
}

func (d *Database) ListLeaseholders() ([]models.Leaseholder, error) {
	return d.queryLeaseholders(leaseholderQuery + ` ORDER BY h.id`)
}

func (d *Database) ListLeaseholdersByProperty(propertyID int64) ([]models.Leaseholder, error) {
	return d.queryLeaseholders(leaseholderQuery+` WHERE h.property_id = ? ORDER BY h.id`, propertyID)
}

// Expenses

func (d *Database) AddExpense(e expenses.Expense) (int64, error) {
	res, err := d.db.Exec(`
		INSERT INTO expenses (property_id, expense_type, amount, date_incurred, description)
		VALUES (?, ?, ?, ?, ?)
	`, e.PropertyID, e.Type, e.Amount.String(), formatDate(e.Date), e.Description)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}
	return res.LastInsertId()
}

func (d *Database) queryExpenses(query string, args ...interface{}) ([]expenses.Expense, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	list := []expenses.Expense{}
	for rows.Next() {
		var e expenses.Expense
		var date string
		if err := rows.Scan(&e.ID, &e.PropertyID, &e.Type, &e.Amount, &date, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

const expenseQuery = `
	SELECT id, property_id, expense_type, amount, date_incurred, COALESCE(description, '')
	FROM expenses
`

func (d *Database) GetExpenses(propertyID int64) ([]expenses.Expense, error) {
	return d.queryExpenses(expenseQuery+` WHERE property_id = ? ORDER BY date_incurred, id`, propertyID)
}

// GetCurrentExpenses returns the property's expenses incurred on or after cutoff
func (d *Database) GetCurrentExpenses(propertyID int64, cutoff time.Time) ([]expenses.Expense, error) {
	return d.queryExpenses(
		expenseQuery+` WHERE property_id = ? AND date_incurred >= ? ORDER BY date_incurred, id`,
		propertyID, formatDate(cutoff),
	)
}

func (d *Database) DeleteExpense(id int64) error {
	res, err := d.db.Exec(`DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return checkAffected(res)
}

// Maintenance requests

func (d *Database) AddMaintenanceRequest(r models.MaintenanceRequest) (int64, error) {
	if r.Status == "" {
		r.Status = models.RequestReceived
	}
	res, err := d.db.Exec(`
		INSERT INTO maintenance_requests (leaseholder_id, request_date, kind, description, status)
		VALUES (?, ?, ?, ?, ?)
	`, r.LeaseholderID, formatDate(r.RequestDate), r.Kind, r.Description, string(r.Status))
	if err != nil {
		return 0, fmt.Errorf("failed to insert maintenance request: %w", err)
	}
	return res.LastInsertId()
}

// ListMaintenanceRequests returns all requests, or one leaseholder's when leaseholderID > 0
func (d *Database) ListMaintenanceRequests(leaseholderID int64) ([]models.MaintenanceRequest, error) {
	rows, err := d.db.Query(`
		SELECT id, leaseholder_id, request_date, kind, COALESCE(description, ''), status, completion_date
		FROM maintenance_requests
		WHERE (? = 0 OR leaseholder_id = ?)
		ORDER BY request_date, id
	`, leaseholderID, leaseholderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query maintenance requests: %w", err)
	}
	defer rows.Close()

	requests := []models.MaintenanceRequest{}
	for rows.Next() {
		var r models.MaintenanceRequest
		var requestDate, status string
		var completion sql.NullString
		if err := rows.Scan(&r.ID, &r.LeaseholderID, &requestDate, &r.Kind, &r.Description, &status, &completion); err != nil {
			return nil, fmt.Errorf("failed to scan maintenance request: %w", err)
		}
		if r.RequestDate, err = parseDate(requestDate); err != nil {
			return nil, err
		}
		r.Status = models.RequestStatus(status)
		if completion.Valid {
			done, err := parseDate(completion.String)
			if err != nil {
				return nil, err
			}
			r.CompletionDate = &done
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// UpdateMaintenanceStatus sets the status; completed is stored only when non-nil
func (d *Database) UpdateMaintenanceStatus(id int64, status models.RequestStatus, completed *time.Time) error {
	var completion interface{}
	if completed != nil {
		completion = formatDate(*completed)
	}
	res, err := d.db.Exec(`
		UPDATE maintenance_requests
		SET status = ?, completion_date = COALESCE(?, completion_date)
		WHERE id = ?
	`, string(status), completion, id)
	if err != nil {
		return fmt.Errorf("failed to update maintenance request: %w", err)
	}
	return checkAffected(res)
}
