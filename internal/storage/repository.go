// Package storage is the local-first SQLite ledger. Submissions land here
// synchronously; the sync worker mirrors unsynced rows into the spreadsheet
// and the names/catalog tabs back down.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"strichliste/internal/core"
	"strichliste/internal/ledger"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListNames implements ledger.NameReader.
func (r *SQLiteRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM names ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListCatalog implements ledger.CatalogReader, preserving sheet order via
// the position column.
func (r *SQLiteRepository) ListCatalog(ctx context.Context) ([]core.CatalogItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT title, unit_price_cents, image_ref FROM catalog ORDER BY position, title`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var items []core.CatalogItem
	for rows.Next() {
		var item core.CatalogItem
		if err := rows.Scan(&item.Title, &item.UnitPrice.Cents, &item.ImageRef); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListEntries implements ledger.EntryReader, oldest first.
func (r *SQLiteRepository) ListEntries(ctx context.Context) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT recorded_at, person, title, unit_price_cents, quantity
		 FROM entries ORDER BY recorded_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		var e core.Entry
		if err := rows.Scan(&e.Date, &e.Person, &e.Title, &e.UnitPrice.Cents, &e.Quantity); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListPayments implements ledger.PaymentReader, oldest first.
func (r *SQLiteRepository) ListPayments(ctx context.Context) ([]core.PaymentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT recorded_at, person, amount_cents FROM payments ORDER BY recorded_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []core.PaymentRecord
	for rows.Next() {
		var p core.PaymentRecord
		if err := rows.Scan(&p.Date, &p.Person, &p.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// RecordCharge implements ledger.ChargeWriter. All rows of one charge share
// a ref and are written in one transaction.
func (r *SQLiteRepository) RecordCharge(ctx context.Context, c core.Charge) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ref := uuid.NewString()
	at := r.now().UTC()
	for _, li := range c.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries (charge_ref, recorded_at, person, title, unit_price_cents, quantity)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			ref, at, c.Person, li.Title, li.UnitPrice.Cents, li.Quantity)
		if err != nil {
			return "", fmt.Errorf("insert entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit charge: %w", err)
	}

	slog.InfoContext(ctx, "Charge saved to SQLite",
		"ref", ref,
		"person", c.Person,
		"items", len(c.Items),
		"total_cents", c.Total().Cents)
	return ref, nil
}

// RecordPayment implements ledger.PaymentWriter.
func (r *SQLiteRepository) RecordPayment(ctx context.Context, p core.Payment) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	ref := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (payment_ref, recorded_at, person, amount_cents) VALUES (?, ?, ?, ?)`,
		ref, r.now().UTC(), p.Person, p.Amount.Cents)
	if err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment saved to SQLite",
		"ref", ref,
		"person", p.Person,
		"amount_cents", p.Amount.Cents)
	return ref, nil
}

// ReplaceNames mirrors the names tab down from the spreadsheet.
func (r *SQLiteRepository) ReplaceNames(ctx context.Context, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM names`); err != nil {
		return fmt.Errorf("clear names: %w", err)
	}
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO names (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("insert name: %w", err)
		}
	}
	return tx.Commit()
}

// ReplaceCatalog mirrors the catalog tab down from the spreadsheet.
func (r *SQLiteRepository) ReplaceCatalog(ctx context.Context, items []core.CatalogItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	for i, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO catalog (title, unit_price_cents, image_ref, position) VALUES (?, ?, ?, ?)`,
			item.Title, item.UnitPrice.Cents, item.ImageRef, i)
		if err != nil {
			return fmt.Errorf("insert catalog item: %w", err)
		}
	}
	return tx.Commit()
}

// UnsyncedCharge is one charge waiting to be mirrored to the spreadsheet.
type UnsyncedCharge struct {
	Ref    string
	Charge core.Charge
	IDs    []int64
}

// UnsyncedCharges returns pending charges grouped by ref, oldest first.
func (r *SQLiteRepository) UnsyncedCharges(ctx context.Context, limit int) ([]UnsyncedCharge, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, charge_ref, person, title, unit_price_cents, quantity
		 FROM entries WHERE synced_at IS NULL ORDER BY recorded_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsynced entries: %w", err)
	}
	defer rows.Close()

	var out []UnsyncedCharge
	index := map[string]int{}
	for rows.Next() {
		var (
			id   int64
			ref  string
			li   core.LineItem
			pers string
		)
		if err := rows.Scan(&id, &ref, &pers, &li.Title, &li.UnitPrice.Cents, &li.Quantity); err != nil {
			return nil, fmt.Errorf("scan unsynced entry: %w", err)
		}
		i, ok := index[ref]
		if !ok {
			i = len(out)
			index[ref] = i
			out = append(out, UnsyncedCharge{Ref: ref, Charge: core.Charge{Person: pers}})
		}
		out[i].Charge.Items = append(out[i].Charge.Items, li)
		out[i].IDs = append(out[i].IDs, id)
	}
	return out, rows.Err()
}

// MarkEntriesSynced stamps the given entry rows as mirrored.
func (r *SQLiteRepository) MarkEntriesSynced(ctx context.Context, ids []int64) error {
	at := r.now().UTC()
	for _, id := range ids {
		if _, err := r.db.ExecContext(ctx, `UPDATE entries SET synced_at = ? WHERE id = ?`, at, id); err != nil {
			return fmt.Errorf("mark entry %d synced: %w", id, err)
		}
	}
	return nil
}

// UnsyncedPayment is one payment waiting to be mirrored to the spreadsheet.
type UnsyncedPayment struct {
	ID      int64
	Ref     string
	Payment core.Payment
}

// UnsyncedPayments returns pending payments, oldest first.
func (r *SQLiteRepository) UnsyncedPayments(ctx context.Context, limit int) ([]UnsyncedPayment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, payment_ref, person, amount_cents
		 FROM payments WHERE synced_at IS NULL ORDER BY recorded_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsynced payments: %w", err)
	}
	defer rows.Close()

	var out []UnsyncedPayment
	for rows.Next() {
		var p UnsyncedPayment
		if err := rows.Scan(&p.ID, &p.Ref, &p.Payment.Person, &p.Payment.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan unsynced payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkPaymentSynced stamps one payment row as mirrored.
func (r *SQLiteRepository) MarkPaymentSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE payments SET synced_at = ? WHERE id = ?`, r.now().UTC(), id); err != nil {
		return fmt.Errorf("mark payment %d synced: %w", id, err)
	}
	return nil
}
