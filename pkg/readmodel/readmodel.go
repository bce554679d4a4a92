// Package readmodel maintains relational projections of the domain events in
// SQLite. Every write is an upsert keyed on the natural business key, so a
// projection can safely receive the same event twice (the bus is
// at-least-once).
package readmodel

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS estates (
	estate_id  TEXT NOT NULL PRIMARY KEY,
	name       TEXT NOT NULL,
	reference  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS merchants (
	merchant_id TEXT NOT NULL PRIMARY KEY,
	estate_id   TEXT NOT NULL,
	name        TEXT NOT NULL,
	reference   TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS merchant_devices (
	merchant_id       TEXT NOT NULL,
	device_id         TEXT NOT NULL,
	device_identifier TEXT NOT NULL,
	is_enabled        INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (merchant_id, device_id)
);
CREATE TABLE IF NOT EXISTS contract_products (
	contract_id  TEXT NOT NULL,
	product_id   TEXT NOT NULL,
	name         TEXT NOT NULL,
	display_text TEXT NOT NULL,
	value        TEXT,
	PRIMARY KEY (contract_id, product_id)
);
CREATE TABLE IF NOT EXISTS statements (
	statement_id TEXT NOT NULL PRIMARY KEY,
	merchant_id  TEXT NOT NULL,
	is_generated INTEGER NOT NULL DEFAULT 0,
	is_built     INTEGER NOT NULL DEFAULT 0,
	is_emailed   INTEGER NOT NULL DEFAULT 0
);
`

// Store is a SQLite-backed read model.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) a read model at the given path.
// Use ":memory:" for an in-memory store in tests.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// AddEstate upserts an estate row.
func (s *Store) AddEstate(ctx context.Context, estateID uuid.UUID, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO estates (estate_id, name) VALUES (?, ?)
		ON CONFLICT (estate_id) DO UPDATE SET name = excluded.name`,
		estateID.String(), name)
	if err != nil {
		return fmt.Errorf("failed to upsert estate: %w", err)
	}
	return nil
}

// SetEstateReference records the estate's allocated reference.
func (s *Store) SetEstateReference(ctx context.Context, estateID uuid.UUID, reference string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE estates SET reference = ? WHERE estate_id = ?`,
		reference, estateID.String())
	if err != nil {
		return fmt.Errorf("failed to set estate reference: %w", err)
	}
	return nil
}

// AddMerchant upserts a merchant row.
func (s *Store) AddMerchant(ctx context.Context, merchantID, estateID uuid.UUID, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO merchants (merchant_id, estate_id, name) VALUES (?, ?, ?)
		ON CONFLICT (merchant_id) DO UPDATE SET estate_id = excluded.estate_id, name = excluded.name`,
		merchantID.String(), estateID.String(), name)
	if err != nil {
		return fmt.Errorf("failed to upsert merchant: %w", err)
	}
	return nil
}

// SetMerchantReference records the merchant's allocated reference.
func (s *Store) SetMerchantReference(ctx context.Context, merchantID uuid.UUID, reference string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE merchants SET reference = ? WHERE merchant_id = ?`,
		reference, merchantID.String())
	if err != nil {
		return fmt.Errorf("failed to set merchant reference: %w", err)
	}
	return nil
}

// AddMerchantDevice upserts an enabled device row for a merchant.
func (s *Store) AddMerchantDevice(ctx context.Context, merchantID, deviceID uuid.UUID, deviceIdentifier string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO merchant_devices (merchant_id, device_id, device_identifier, is_enabled) VALUES (?, ?, ?, 1)
		ON CONFLICT (merchant_id, device_id) DO UPDATE SET device_identifier = excluded.device_identifier, is_enabled = 1`,
		merchantID.String(), deviceID.String(), deviceIdentifier)
	if err != nil {
		return fmt.Errorf("failed to upsert merchant device: %w", err)
	}
	return nil
}

// SwapMerchantDevice disables the original device and upserts the new one.
func (s *Store) SwapMerchantDevice(ctx context.Context, merchantID, originalDeviceID, newDeviceID uuid.UUID, newDeviceIdentifier string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE merchant_devices SET is_enabled = 0 WHERE merchant_id = ? AND device_id = ?`,
		merchantID.String(), originalDeviceID.String()); err != nil {
		return fmt.Errorf("failed to disable device: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO merchant_devices (merchant_id, device_id, device_identifier, is_enabled) VALUES (?, ?, ?, 1)
		ON CONFLICT (merchant_id, device_id) DO UPDATE SET device_identifier = excluded.device_identifier, is_enabled = 1`,
		merchantID.String(), newDeviceID.String(), newDeviceIdentifier); err != nil {
		return fmt.Errorf("failed to upsert new device: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit device swap: %w", err)
	}
	return nil
}

// AddContractProduct upserts a contract product row. A nil value marks a
// variable value product.
func (s *Store) AddContractProduct(ctx context.Context, contractID, productID uuid.UUID, name, displayText string, value *string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contract_products (contract_id, product_id, name, display_text, value) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (contract_id, product_id) DO UPDATE
		SET name = excluded.name, display_text = excluded.display_text, value = excluded.value`,
		contractID.String(), productID.String(), name, displayText, value)
	if err != nil {
		return fmt.Errorf("failed to upsert contract product: %w", err)
	}
	return nil
}

// CreateStatement upserts a statement row.
func (s *Store) CreateStatement(ctx context.Context, statementID, merchantID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO statements (statement_id, merchant_id) VALUES (?, ?)
		ON CONFLICT (statement_id) DO UPDATE SET merchant_id = excluded.merchant_id`,
		statementID.String(), merchantID.String())
	if err != nil {
		return fmt.Errorf("failed to upsert statement: %w", err)
	}
	return nil
}

// MarkStatementGenerated flags a statement as generated.
func (s *Store) MarkStatementGenerated(ctx context.Context, statementID uuid.UUID) error {
	return s.markStatement(ctx, statementID, "is_generated")
}

// MarkStatementBuilt flags a statement as built.
func (s *Store) MarkStatementBuilt(ctx context.Context, statementID uuid.UUID) error {
	return s.markStatement(ctx, statementID, "is_built")
}

// MarkStatementEmailed flags a statement as emailed.
func (s *Store) MarkStatementEmailed(ctx context.Context, statementID uuid.UUID) error {
	return s.markStatement(ctx, statementID, "is_emailed")
}

func (s *Store) markStatement(ctx context.Context, statementID uuid.UUID, column string) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE statements SET %s = 1 WHERE statement_id = ?`, column),
		statementID.String())
	if err != nil {
		return fmt.Errorf("failed to mark statement %s: %w", column, err)
	}
	return nil
}

// Estate is a projected estate row.
type Estate struct {
	EstateID  uuid.UUID
	Name      string
	Reference string
}

// GetEstate returns a projected estate, or sql.ErrNoRows.
func (s *Store) GetEstate(ctx context.Context, estateID uuid.UUID) (*Estate, error) {
	var (
		estate Estate
		id     string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT estate_id, name, reference FROM estates WHERE estate_id = ?`,
		estateID.String(),
	).Scan(&id, &estate.Name, &estate.Reference)
	if err != nil {
		return nil, err
	}
	estate.EstateID = uuid.MustParse(id)
	return &estate, nil
}

// Merchant is a projected merchant row.
type Merchant struct {
	MerchantID uuid.UUID
	EstateID   uuid.UUID
	Name       string
	Reference  string
}

// GetMerchant returns a projected merchant, or sql.ErrNoRows.
func (s *Store) GetMerchant(ctx context.Context, merchantID uuid.UUID) (*Merchant, error) {
	var (
		merchant   Merchant
		id, estate string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT merchant_id, estate_id, name, reference FROM merchants WHERE merchant_id = ?`,
		merchantID.String(),
	).Scan(&id, &estate, &merchant.Name, &merchant.Reference)
	if err != nil {
		return nil, err
	}
	merchant.MerchantID = uuid.MustParse(id)
	merchant.EstateID = uuid.MustParse(estate)
	return &merchant, nil
}

// CountEnabledDevices returns how many enabled devices a merchant has.
func (s *Store) CountEnabledDevices(ctx context.Context, merchantID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM merchant_devices WHERE merchant_id = ? AND is_enabled = 1`,
		merchantID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count devices: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
