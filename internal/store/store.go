// Package store persists accounts, categories and transactions in a local
// SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"finledger/internal/config"
	"finledger/internal/logging"
	"finledger/internal/models"
)

// LedgerRow is one consolidated ledger entry with category and account names
// resolved.
type LedgerRow struct {
	HashID      string
	Date        string
	AmountCents int64
	Description string
	Note        string
	Category    string
	Account     string
}

// Store wraps the SQLite database.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// Open opens (creating if necessary) the SQLite database at path with
// foreign key enforcement on. SQLite does not enforce foreign keys by
// default.
func Open(path string, log logging.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL,
	description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL,
	type TEXT CHECK(type IN ('Income', 'Expense')),
	keywords TEXT NOT NULL,
	description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	hash_id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	amount INTEGER NOT NULL,
	description TEXT,
	account_id INTEGER,
	category_id INTEGER,
	note TEXT,
	FOREIGN KEY(account_id) REFERENCES accounts(id),
	FOREIGN KEY(category_id) REFERENCES categories(id)
);
`

// Initialize creates the schema and seeds categories and accounts from
// configuration on first run. The Unknown category is always guaranteed to
// exist so low-confidence matches have a stable target.
func (s *Store) Initialize(categories config.CategoryGroups, accounts map[string]string) error {
	if _, err := s.db.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	if err := s.seedCategories(categories); err != nil {
		return err
	}
	return s.seedAccounts(accounts)
}

func (s *Store) seedCategories(categories config.CategoryGroups) error {
	var count int
	if err := s.db.QueryRow("SELECT count(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}

	if count == 0 {
		s.log.Info("Seeding categories from config")

		groups := []struct {
			dbType string
			defs   map[string]config.CategoryDef
		}{
			{"Income", categories.Income},
			{"Expense", categories.Expense},
		}

		for _, group := range groups {
			names := make([]string, 0, len(group.defs))
			for name := range group.defs {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				def := group.defs[name]
				_, err := s.db.Exec(
					"INSERT OR IGNORE INTO categories (name, type, keywords, description) VALUES (?, ?, ?, ?)",
					name, group.dbType, strings.Join(def.Keywords, ","), def.Description,
				)
				if err != nil {
					return fmt.Errorf("seeding category %s: %w", name, err)
				}
			}
		}
	}

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO categories (name, type, keywords, description) VALUES (?, ?, ?, ?)",
		models.CategoryUnknown, "Expense", "", "Automatically assigned for low confidence matches",
	)
	if err != nil {
		return fmt.Errorf("seeding Unknown category: %w", err)
	}
	return nil
}

func (s *Store) seedAccounts(accounts map[string]string) error {
	var count int
	if err := s.db.QueryRow("SELECT count(*) FROM accounts").Scan(&count); err != nil {
		return fmt.Errorf("counting accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	s.log.Info("Seeding accounts from config")

	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		_, err := s.db.Exec(
			"INSERT OR IGNORE INTO accounts (name, description) VALUES (?, ?)",
			name, accounts[name],
		)
		if err != nil {
			return fmt.Errorf("seeding account %s: %w", name, err)
		}
	}
	return nil
}

// ExistingHashIDs returns the set of all known transaction hash ids.
func (s *Store) ExistingHashIDs() (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT hash_id FROM transactions")
	if err != nil {
		return nil, fmt.Errorf("querying hash ids: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning hash id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// FilterNew returns only the transactions whose hash id is not yet stored.
func (s *Store) FilterNew(txs []models.Transaction) ([]models.Transaction, error) {
	if len(txs) == 0 {
		return txs, nil
	}

	existing, err := s.ExistingHashIDs()
	if err != nil {
		return nil, err
	}

	fresh := txs[:0:0]
	for _, tx := range txs {
		if _, seen := existing[tx.HashID]; !seen {
			fresh = append(fresh, tx)
		}
	}
	return fresh, nil
}

// LoadTransactions inserts categorized transactions for the given account.
// Amounts are stored as integer cents. Category names that do not exist in
// the store map to the Unknown category; the hash id primary key makes
// re-loading the same statement a no-op.
func (s *Store) LoadTransactions(account string, txs []models.Transaction) error {
	if len(txs) == 0 {
		s.log.WithField(logging.FieldAccount, account).Info("No new transactions to load")
		return nil
	}

	var accountID int64
	err := s.db.QueryRow("SELECT id FROM accounts WHERE name = ? COLLATE NOCASE", account).Scan(&accountID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("account %q not found in database", account)
	}
	if err != nil {
		return fmt.Errorf("looking up account %q: %w", account, err)
	}

	categoryIDs, err := s.categoryIDs()
	if err != nil {
		return err
	}
	unknownID, ok := categoryIDs[models.CategoryUnknown]
	if !ok {
		return fmt.Errorf("%s category missing from database", models.CategoryUnknown)
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = dbTx.Rollback()
	}()

	stmt, err := dbTx.Prepare(`
		INSERT OR IGNORE INTO transactions (
			hash_id, date, amount, description, account_id, category_id, note
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, tx := range txs {
		categoryName := tx.Category
		if categoryName == "" {
			categoryName = models.CategoryUnknown
		}

		categoryID, ok := categoryIDs[categoryName]
		if !ok {
			s.log.WithField(logging.FieldCategory, categoryName).
				Warn("Category not found in database, using Unknown")
			categoryID = unknownID
		}

		if _, err := stmt.Exec(
			tx.HashID, tx.Date, tx.AmountCents(), tx.Description,
			accountID, categoryID, tx.Note,
		); err != nil {
			return fmt.Errorf("inserting transaction %s: %w", tx.HashID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transactions: %w", err)
	}

	s.log.WithFields(
		logging.Field{Key: logging.FieldAccount, Value: account},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
	).Info("Loaded transactions")
	return nil
}

func (s *Store) categoryIDs() (map[string]int64, error) {
	rows, err := s.db.Query("SELECT id, name FROM categories")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

// AllTransactions returns the consolidated ledger with category and account
// names resolved, newest first.
func (s *Store) AllTransactions() ([]LedgerRow, error) {
	rows, err := s.db.Query(`
		SELECT
			t.hash_id,
			t.date,
			t.amount,
			COALESCE(t.description, ''),
			COALESCE(t.note, ''),
			COALESCE(c.name, ''),
			COALESCE(a.name, '')
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		LEFT JOIN accounts a ON t.account_id = a.id
		ORDER BY t.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ledger []LedgerRow
	for rows.Next() {
		var row LedgerRow
		if err := rows.Scan(
			&row.HashID, &row.Date, &row.AmountCents,
			&row.Description, &row.Note, &row.Category, &row.Account,
		); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		ledger = append(ledger, row)
	}
	return ledger, rows.Err()
}
