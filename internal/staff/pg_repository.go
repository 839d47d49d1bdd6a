package staff

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

const employeeColumns = `id::text, name, COALESCE(cpf, ''), position,
COALESCE(to_char(hire_date, 'YYYY-MM-DD'), ''), salary_cents, active, phone, address, created_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.CPF, &e.Position, &e.HireDate, &e.SalaryCents,
		&e.Active, &e.Phone, &e.Address, &e.CreatedAt)
	return e, err
}

func (r *PGRepository) CreateEmployee(ctx context.Context, e Employee) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO employees
(id, name, cpf, position, hire_date, salary_cents, active, phone, address, created_at)
VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, '')::date, $6, $7, $8, $9, $10)`,
		e.ID, e.Name, e.CPF, e.Position, e.HireDate, e.SalaryCents, e.Active, e.Phone, e.Address, e.CreatedAt)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return ErrDuplicateCPF
		}
		return fmt.Errorf("staff: insert employee: %w", err)
	}
	return nil
}

func (r *PGRepository) GetEmployee(ctx context.Context, id string) (Employee, error) {
	e, err := scanEmployee(r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrEmployeeNotFound
		}
		return Employee{}, fmt.Errorf("staff: get employee: %w", err)
	}
	return e, nil
}

func (r *PGRepository) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees
WHERE (NOT $1 OR active) ORDER BY name, id`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("staff: list employees: %w", err)
	}
	employees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return nil, fmt.Errorf("staff: list employees: %w", err)
	}
	return employees, nil
}

func (r *PGRepository) SetEmployeeActive(ctx context.Context, id string, active bool) (Employee, error) {
	e, err := scanEmployee(r.pool.QueryRow(ctx, `UPDATE employees SET active = $2 WHERE id = $1
RETURNING `+employeeColumns, id, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrEmployeeNotFound
		}
		return Employee{}, fmt.Errorf("staff: update employee: %w", err)
	}
	return e, nil
}

func (r *PGRepository) CreatePayment(ctx context.Context, p Payment) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockRow(ctx, tx, "employees", p.EmployeeID, ErrEmployeeNotFound); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO employee_payments (id, employee_id, date, amount_cents, kind, notes, created_at)
VALUES ($1, $2, $3::date, $4, $5, $6, $7)`, p.ID, p.EmployeeID, p.Date, p.AmountCents, p.Kind, p.Notes, p.CreatedAt)
		if err != nil {
			if shared.IsForeignKeyViolation(err) {
				return ErrEmployeeNotFound
			}
			return fmt.Errorf("staff: insert payment: %w", err)
		}
		return nil
	})
}

func (r *PGRepository) ListPayments(ctx context.Context, employeeID string) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, employee_id::text, to_char(date, 'YYYY-MM-DD'), amount_cents, kind, notes, created_at
FROM employee_payments WHERE employee_id = $1 ORDER BY date DESC, created_at`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("staff: list payments: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Payment, error) {
		var p Payment
		err := row.Scan(&p.ID, &p.EmployeeID, &p.Date, &p.AmountCents, &p.Kind, &p.Notes, &p.CreatedAt)
		return p, err
	})
}

var _ Repository = (*PGRepository)(nil)
