package production

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const recordColumns = `id::text, product, quantity, unit, COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''),
COALESCE(to_char(end_date, 'YYYY-MM-DD'), ''), area, total_cost_cents, sale_value_cents, notes, created_at`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Product, &rec.Quantity, &rec.Unit, &rec.StartDate, &rec.EndDate,
		&rec.Area, &rec.TotalCostCents, &rec.SaleValueCents, &rec.Notes, &rec.CreatedAt)
	rec.ProfitCents = rec.SaleValueCents - rec.TotalCostCents
	return rec, err
}

func (r *PGRepository) Create(ctx context.Context, rec Record) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO production_records
(id, product, quantity, unit, start_date, end_date, area, total_cost_cents, sale_value_cents, notes, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, '')::date, NULLIF($6, '')::date, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Product, rec.Quantity, rec.Unit, rec.StartDate, rec.EndDate, rec.Area,
		rec.TotalCostCents, rec.SaleValueCents, rec.Notes, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("production: insert record: %w", err)
	}
	return nil
}

func (r *PGRepository) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM production_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrRecordNotFound
		}
		return Record{}, fmt.Errorf("production: get record: %w", err)
	}
	return rec, nil
}

func (r *PGRepository) List(ctx context.Context, product string) ([]Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+recordColumns+` FROM production_records
WHERE ($1 = '' OR lower(product) = lower($1)) ORDER BY start_date DESC NULLS LAST, created_at`, product)
	if err != nil {
		return nil, fmt.Errorf("production: list records: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, fmt.Errorf("production: list records: %w", err)
	}
	return records, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM production_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("production: delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
