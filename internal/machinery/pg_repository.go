package machinery

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

const machineColumns = `id::text, name, model, COALESCE(year, 0), acquisition_value_cents,
COALESCE(to_char(acquisition_date, 'YYYY-MM-DD'), ''), status, notes, created_at`

func scanMachine(row pgx.Row) (Machine, error) {
	var m Machine
	err := row.Scan(&m.ID, &m.Name, &m.Model, &m.Year, &m.AcquisitionValueCents,
		&m.AcquisitionDate, &m.Status, &m.Notes, &m.CreatedAt)
	return m, err
}

func (r *PGRepository) CreateMachine(ctx context.Context, m Machine) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO machines
(id, name, model, year, acquisition_value_cents, acquisition_date, status, notes, created_at)
VALUES ($1, $2, $3, NULLIF($4, 0), $5, NULLIF($6, '')::date, $7, $8, $9)`,
		m.ID, m.Name, m.Model, m.Year, m.AcquisitionValueCents, m.AcquisitionDate, m.Status, m.Notes, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("machinery: insert machine: %w", err)
	}
	return nil
}

func (r *PGRepository) GetMachine(ctx context.Context, id string) (Machine, error) {
	m, err := scanMachine(r.pool.QueryRow(ctx, `SELECT `+machineColumns+` FROM machines WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Machine{}, ErrMachineNotFound
		}
		return Machine{}, fmt.Errorf("machinery: get machine: %w", err)
	}
	return m, nil
}

func (r *PGRepository) ListMachines(ctx context.Context, status string) ([]Machine, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+machineColumns+` FROM machines
WHERE ($1 = '' OR status = $1) ORDER BY name, id`, status)
	if err != nil {
		return nil, fmt.Errorf("machinery: list machines: %w", err)
	}
	machines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Machine, error) {
		return scanMachine(row)
	})
	if err != nil {
		return nil, fmt.Errorf("machinery: list machines: %w", err)
	}
	return machines, nil
}

func (r *PGRepository) UpdateMachineStatus(ctx context.Context, id, status string) (Machine, error) {
	m, err := scanMachine(r.pool.QueryRow(ctx, `UPDATE machines SET status = $2 WHERE id = $1
RETURNING `+machineColumns, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Machine{}, ErrMachineNotFound
		}
		return Machine{}, fmt.Errorf("machinery: update machine: %w", err)
	}
	return m, nil
}

func (r *PGRepository) CreateMaintenance(ctx context.Context, rec MaintenanceRecord) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockRow(ctx, tx, "machines", rec.MachineID, ErrMachineNotFound); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO machine_maintenance
(id, machine_id, date, description, cost_cents, responsible, created_at)
VALUES ($1, $2, $3::date, $4, $5, $6, $7)`,
			rec.ID, rec.MachineID, rec.Date, rec.Description, rec.CostCents, rec.Responsible, rec.CreatedAt)
		if err != nil {
			if shared.IsForeignKeyViolation(err) {
				return ErrMachineNotFound
			}
			return fmt.Errorf("machinery: insert maintenance: %w", err)
		}
		return nil
	})
}

func (r *PGRepository) ListMaintenance(ctx context.Context, machineID string) ([]MaintenanceRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, machine_id::text, to_char(date, 'YYYY-MM-DD'), description,
cost_cents, responsible, created_at FROM machine_maintenance WHERE machine_id = $1 ORDER BY date DESC, created_at`, machineID)
	if err != nil {
		return nil, fmt.Errorf("machinery: list maintenance: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (MaintenanceRecord, error) {
		var rec MaintenanceRecord
		err := row.Scan(&rec.ID, &rec.MachineID, &rec.Date, &rec.Description, &rec.CostCents, &rec.Responsible, &rec.CreatedAt)
		return rec, err
	})
}

var _ Repository = (*PGRepository)(nil)
