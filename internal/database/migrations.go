package database

func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			street TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			zip_code TEXT NOT NULL DEFAULT '',
			property_tax TEXT NOT NULL DEFAULT '0',
			business_insurance TEXT NOT NULL DEFAULT '0',
			num_units INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS leases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			fee_structure TEXT NOT NULL,
			payment_method TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS leaseholders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			property_id INTEGER NOT NULL,
			lease_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			company_name TEXT,
			tax_id TEXT,
			street TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			zip_code TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			move_in_date TEXT NOT NULL,
			FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE,
			FOREIGN KEY (lease_id) REFERENCES leases(id)
		);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			property_id INTEGER NOT NULL,
			expense_type TEXT NOT NULL,
			amount TEXT NOT NULL,
			date_incurred TEXT NOT NULL,
			description TEXT,
			FOREIGN KEY (property_id) REFERENCES properties(id) ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_expenses_property_date
		ON expenses(property_id, date_incurred);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS statements (
			statement_id INTEGER PRIMARY KEY AUTOINCREMENT,
			leaseholder_id INTEGER NOT NULL,
			reference TEXT NOT NULL UNIQUE,
			period_start TEXT NOT NULL,
			statement_date TEXT NOT NULL,
			fee_structure TEXT NOT NULL,
			amount_due TEXT NOT NULL,
			amount_paid TEXT NOT NULL DEFAULT '0',
			statement_path TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (leaseholder_id) REFERENCES leaseholders(id) ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS maintenance_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			leaseholder_id INTEGER NOT NULL,
			request_date TEXT NOT NULL,
			kind TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL,
			completion_date TEXT,
			FOREIGN KEY (leaseholder_id) REFERENCES leaseholders(id) ON DELETE CASCADE
		);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS telegram_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			is_enabled BOOLEAN NOT NULL DEFAULT 0,
			bot_token TEXT NOT NULL DEFAULT '',
			chat_id TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	return nil
}
