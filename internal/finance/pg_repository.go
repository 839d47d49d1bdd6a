package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrogest/agrogest/internal/platform/db"
	"github.com/agrogest/agrogest/internal/shared"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const supplierColumns = `id::text, name, phone, email, address, COALESCE(cnpj, ''), notes, created_at`

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CNPJ, &s.Notes, &s.CreatedAt)
	return s, err
}

func (r *PGRepository) CreateSupplier(ctx context.Context, s Supplier) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO suppliers (id, name, phone, email, address, cnpj, notes, created_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`,
		s.ID, s.Name, s.Phone, s.Email, s.Address, s.CNPJ, s.Notes, s.CreatedAt)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return ErrDuplicateSupplier
		}
		return fmt.Errorf("finance: insert supplier: %w", err)
	}
	return nil
}

func (r *PGRepository) GetSupplier(ctx context.Context, id string) (Supplier, error) {
	s, err := scanSupplier(r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, ErrSupplierNotFound
		}
		return Supplier{}, fmt.Errorf("finance: get supplier: %w", err)
	}
	return s, nil
}

func (r *PGRepository) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("finance: list suppliers: %w", err)
	}
	suppliers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Supplier, error) {
		return scanSupplier(row)
	})
	if err != nil {
		return nil, fmt.Errorf("finance: list suppliers: %w", err)
	}
	return suppliers, nil
}

const expenseColumns = `id::text, description, amount_cents, to_char(date, 'YYYY-MM-DD'), category, payment_method,
COALESCE(supplier_id::text, ''), paid, COALESCE(to_char(paid_on, 'YYYY-MM-DD'), ''), notes, created_by, created_at`

func scanExpense(row pgx.Row) (Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.Description, &e.AmountCents, &e.Date, &e.Category, &e.PaymentMethod,
		&e.SupplierID, &e.Paid, &e.PaidOn, &e.Notes, &e.CreatedBy, &e.CreatedAt)
	return e, err
}

// filterClause matches rows against Filter bound to $1..$3.
const filterClause = `($1 = '' OR date >= NULLIF($1, '')::date)
AND ($2 = '' OR date <= NULLIF($2, '')::date)
AND ($3 = '' OR lower(category) = lower($3))`

func (r *PGRepository) CreateExpense(ctx context.Context, e Expense) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if e.SupplierID != "" {
			if err := db.LockRow(ctx, tx, "suppliers", e.SupplierID, ErrSupplierNotFound); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `INSERT INTO expenses
(id, description, amount_cents, date, category, payment_method, supplier_id, paid, paid_on, notes, created_by, created_at)
VALUES ($1, $2, $3, $4::date, $5, $6, NULLIF($7, '')::uuid, $8, NULLIF($9, '')::date, $10, $11, $12)`,
			e.ID, e.Description, e.AmountCents, e.Date, e.Category, e.PaymentMethod, e.SupplierID,
			e.Paid, e.PaidOn, e.Notes, e.CreatedBy, e.CreatedAt)
		if err != nil {
			if shared.IsForeignKeyViolation(err) {
				return ErrSupplierNotFound
			}
			return fmt.Errorf("finance: insert expense: %w", err)
		}
		return nil
	})
}

func (r *PGRepository) ListExpenses(ctx context.Context, f Filter) ([]Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE `+filterClause+`
ORDER BY date DESC, created_at`, f.From, f.To, f.Category)
	if err != nil {
		return nil, fmt.Errorf("finance: list expenses: %w", err)
	}
	expenses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Expense, error) {
		return scanExpense(row)
	})
	if err != nil {
		return nil, fmt.Errorf("finance: list expenses: %w", err)
	}
	return expenses, nil
}

func (r *PGRepository) MarkExpensePaid(ctx context.Context, id, paidOn string) (Expense, error) {
	e, err := scanExpense(r.pool.QueryRow(ctx, `UPDATE expenses SET paid = true, paid_on = $2::date WHERE id = $1
RETURNING `+expenseColumns, id, paidOn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Expense{}, ErrExpenseNotFound
		}
		return Expense{}, fmt.Errorf("finance: update expense: %w", err)
	}
	return e, nil
}

const incomeColumns = `id::text, description, amount_cents, to_char(date, 'YYYY-MM-DD'), category, customer, received, notes, created_at`

func scanIncome(row pgx.Row) (Income, error) {
	var in Income
	err := row.Scan(&in.ID, &in.Description, &in.AmountCents, &in.Date, &in.Category, &in.Customer,
		&in.Received, &in.Notes, &in.CreatedAt)
	return in, err
}

func (r *PGRepository) CreateIncome(ctx context.Context, in Income) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO income
(id, description, amount_cents, date, category, customer, received, notes, created_at)
VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9)`,
		in.ID, in.Description, in.AmountCents, in.Date, in.Category, in.Customer, in.Received, in.Notes, in.CreatedAt)
	if err != nil {
		return fmt.Errorf("finance: insert income: %w", err)
	}
	return nil
}

func (r *PGRepository) ListIncome(ctx context.Context, f Filter) ([]Income, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+incomeColumns+` FROM income WHERE `+filterClause+`
ORDER BY date DESC, created_at`, f.From, f.To, f.Category)
	if err != nil {
		return nil, fmt.Errorf("finance: list income: %w", err)
	}
	income, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Income, error) {
		return scanIncome(row)
	})
	if err != nil {
		return nil, fmt.Errorf("finance: list income: %w", err)
	}
	return income, nil
}

func (r *PGRepository) MarkIncomeReceived(ctx context.Context, id string) (Income, error) {
	in, err := scanIncome(r.pool.QueryRow(ctx, `UPDATE income SET received = true WHERE id = $1
RETURNING `+incomeColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Income{}, ErrIncomeNotFound
		}
		return Income{}, fmt.Errorf("finance: update income: %w", err)
	}
	return in, nil
}

var _ Repository = (*PGRepository)(nil)
