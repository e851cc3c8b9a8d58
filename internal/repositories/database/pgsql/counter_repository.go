package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/freightdesk/backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// PgxCounterRepository mints year-scoped serials from a counter table
// (one row per calendar year). The insert-or-increment runs as a single
// statement so the row lock taken by the upsert serializes concurrent
// callers; the increment commits or rolls back with the enclosing
// document transaction.
type PgxCounterRepository struct {
	table string
}

// NewQuoteCounterRepository returns the counter store for quotations.
func NewQuoteCounterRepository() portsrepo.CounterRepository {
	return &PgxCounterRepository{table: "quote_counters"}
}

// NewInvoiceCounterRepository returns the counter store for invoices.
func NewInvoiceCounterRepository() portsrepo.CounterRepository {
	return &PgxCounterRepository{table: "invoice_counters"}
}

var _ portsrepo.CounterRepository = (*PgxCounterRepository)(nil)

// counterUpsertSQL builds the insert-or-increment statement for a
// counter table. Table names are fixed at construction, never user
// input.
func counterUpsertSQL(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %[1]s ("year", last_serial, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT ("year")
		DO UPDATE SET last_serial = %[1]s.last_serial + 1, updated_at = now()
		RETURNING last_serial;
	`, table)
}

// NextSerial increments (or creates at 1) the counter row for year and
// returns the new serial. Must be called inside the same transaction
// that persists the document using the minted number.
func (r *PgxCounterRepository) NextSerial(ctx context.Context, tx pgx.Tx, year int) (int64, error) {
	query := counterUpsertSQL(r.table)

	var serial int64
	if err := tx.QueryRow(ctx, query, year).Scan(&serial); err != nil {
		return 0, fmt.Errorf("failed to advance %s for year %d: %w", r.table, year, err)
	}
	return serial, nil
}
