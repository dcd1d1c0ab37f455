package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

// Database operations

// SaveDatabase stores db under its name, replacing any database previously
// saved with that name. All rows are written in a single transaction.
func (s *Store) SaveDatabase(db *transactions.Database, source string) (*DatabaseInfo, error) {
	info := &DatabaseInfo{
		ID:               uuid.NewString(),
		Name:             db.Name(),
		Source:           source,
		ImportedAt:       time.Now().UTC().Truncate(time.Second),
		TransactionCount: db.Len(),
		ItemCount:        db.UniverseSize(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Foreign keys cascade the old transactions away
	if _, err := tx.Exec(`DELETE FROM databases WHERE name = ?`, info.Name); err != nil {
		return nil, wrapQueryErr(err, "failed to replace database %s", info.Name)
	}

	_, err = tx.Exec(`
		INSERT INTO databases
		(id, name, source, imported_at, transaction_count, item_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		info.ID,
		info.Name,
		info.Source,
		info.ImportedAt.Format(time.RFC3339),
		info.TransactionCount,
		info.ItemCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert database %s: %w", info.Name, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO transactions (database_id, position, tid, items) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range db.Records() {
		itemsJSON, err := json.Marshal(rec.Items)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal items of transaction %d: %w", i, err)
		}
		if _, err := stmt.Exec(info.ID, i, rec.ID, string(itemsJSON)); err != nil {
			return nil, fmt.Errorf("failed to insert transaction %d of %s: %w", i, info.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit database %s: %w", info.Name, err)
	}

	return info, nil
}

// GetDatabase returns the catalogue entry for name.
func (s *Store) GetDatabase(name string) (*DatabaseInfo, error) {
	query := `
		SELECT id, name, source, imported_at, transaction_count, item_count
		FROM databases
		WHERE name = ?
	`

	info, err := scanDatabaseInfo(s.db.QueryRow(query, name))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	if err != nil {
		return nil, wrapQueryErr(err, "failed to get database %s", name)
	}
	return info, nil
}

// ListDatabases returns every catalogue entry ordered by name.
func (s *Store) ListDatabases() ([]*DatabaseInfo, error) {
	query := `
		SELECT id, name, source, imported_at, transaction_count, item_count
		FROM databases
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, wrapQueryErr(err, "failed to list databases")
	}
	defer rows.Close()

	var infos []*DatabaseInfo
	for rows.Next() {
		info, err := scanDatabaseInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan database row: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating databases: %w", err)
	}

	return infos, nil
}

// LoadDatabase reads the named database back into memory, transactions in
// their original order.
func (s *Store) LoadDatabase(name string) (*transactions.Database, error) {
	info, err := s.GetDatabase(name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT tid, items
		FROM transactions
		WHERE database_id = ?
		ORDER BY position
	`, info.ID)
	if err != nil {
		return nil, wrapQueryErr(err, "failed to load transactions of %s", name)
	}
	defer rows.Close()

	records := make([]transactions.Record, 0, info.TransactionCount)
	for rows.Next() {
		var tid sql.NullString
		var itemsJSON string
		if err := rows.Scan(&tid, &itemsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		rec := transactions.Record{ID: tid.String}
		if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items of %s: %w", name, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions.NewDatabase(info.Name, records), nil
}

// DeleteDatabase removes a database and its transactions.
func (s *Store) DeleteDatabase(name string) error {
	result, err := s.db.Exec(`DELETE FROM databases WHERE name = ?`, name)
	if err != nil {
		return wrapQueryErr(err, "failed to delete database %s", name)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDatabaseInfo(row rowScanner) (*DatabaseInfo, error) {
	var info DatabaseInfo
	var source sql.NullString
	var importedAt string

	err := row.Scan(
		&info.ID,
		&info.Name,
		&source,
		&importedAt,
		&info.TransactionCount,
		&info.ItemCount,
	)
	if err != nil {
		return nil, err
	}
	info.Source = source.String

	// Parse imported_at timestamp
	info.ImportedAt, err = time.Parse(time.RFC3339, importedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse imported_at for %s: %w", info.Name, err)
	}

	return &info, nil
}
