package farming

import (
	"context"
	"errors"
	"fmt"
	"time"

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

func (r *PGRepository) CreateFarm(ctx context.Context, f Farm) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO farms (id, name, location, created_at) VALUES ($1, $2, $3, $4)`,
		f.ID, f.Name, f.Location, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("farming: insert farm: %w", err)
	}
	return nil
}

func (r *PGRepository) GetFarm(ctx context.Context, id string) (Farm, error) {
	var f Farm
	err := r.pool.QueryRow(ctx, `SELECT id::text, name, location, created_at FROM farms WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.Location, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Farm{}, ErrFarmNotFound
		}
		return Farm{}, fmt.Errorf("farming: get farm: %w", err)
	}
	return f, nil
}

func (r *PGRepository) ListFarms(ctx context.Context, limit, offset int) ([]Farm, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM farms`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("farming: count farms: %w", err)
	}
	rows, err := r.pool.Query(ctx, `SELECT id::text, name, location, created_at FROM farms
ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("farming: list farms: %w", err)
	}
	farms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Farm, error) {
		var f Farm
		err := row.Scan(&f.ID, &f.Name, &f.Location, &f.CreatedAt)
		return f, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("farming: list farms: %w", err)
	}
	return farms, total, nil
}

// CreateField checks and locks the parent farm in the same transaction as the insert.
func (r *PGRepository) CreateField(ctx context.Context, f Field) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockRow(ctx, tx, "farms", f.FarmID, ErrFarmNotFound); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO fields (id, farm_id, name, area, created_at) VALUES ($1, $2, $3, $4, $5)`,
			f.ID, f.FarmID, f.Name, f.Area, f.CreatedAt)
		if err != nil {
			if shared.IsForeignKeyViolation(err) {
				return ErrFarmNotFound
			}
			return fmt.Errorf("farming: insert field: %w", err)
		}
		return nil
	})
}

func (r *PGRepository) GetField(ctx context.Context, id string) (Field, error) {
	var f Field
	err := r.pool.QueryRow(ctx, `SELECT id::text, farm_id::text, name, area, created_at FROM fields WHERE id = $1`, id).
		Scan(&f.ID, &f.FarmID, &f.Name, &f.Area, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Field{}, ErrFieldNotFound
		}
		return Field{}, fmt.Errorf("farming: get field: %w", err)
	}
	return f, nil
}

func (r *PGRepository) ListFieldsByFarm(ctx context.Context, farmID string) ([]Field, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, farm_id::text, name, area, created_at FROM fields
WHERE farm_id = $1 ORDER BY created_at, id`, farmID)
	if err != nil {
		return nil, fmt.Errorf("farming: list fields: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Field, error) {
		var f Field
		err := row.Scan(&f.ID, &f.FarmID, &f.Name, &f.Area, &f.CreatedAt)
		return f, err
	})
}

func (r *PGRepository) CreateCrop(ctx context.Context, c Crop) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockRow(ctx, tx, "fields", c.FieldID, ErrFieldNotFound); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO crops (id, field_id, crop_type, planting_date, status, created_at)
VALUES ($1, $2, $3, $4::date, $5, $6)`, c.ID, c.FieldID, c.CropType, c.PlantingDate, c.Status, c.CreatedAt)
		if err != nil {
			if shared.IsForeignKeyViolation(err) {
				return ErrFieldNotFound
			}
			return fmt.Errorf("farming: insert crop: %w", err)
		}
		return nil
	})
}

func (r *PGRepository) ListCropsByField(ctx context.Context, fieldID string) ([]Crop, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, field_id::text, crop_type, to_char(planting_date, 'YYYY-MM-DD'), status, created_at
FROM crops WHERE field_id = $1 ORDER BY planting_date, id`, fieldID)
	if err != nil {
		return nil, fmt.Errorf("farming: list crops: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Crop, error) {
		var c Crop
		err := row.Scan(&c.ID, &c.FieldID, &c.CropType, &c.PlantingDate, &c.Status, &c.CreatedAt)
		return c, err
	})
}

func (r *PGRepository) CreateActivity(ctx context.Context, a Activity) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := db.LockRow(ctx, tx, "fields", a.FieldID, ErrFieldNotFound); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO activities (id, field_id, activity_type, description, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`, a.ID, a.FieldID, a.ActivityType, a.Description, a.Status, a.CreatedAt, a.UpdatedAt)
		if err != nil {
			if shared.IsForeignKeyViolation(err) {
				return ErrFieldNotFound
			}
			return fmt.Errorf("farming: insert activity: %w", err)
		}
		return nil
	})
}

const activityColumns = `id::text, field_id::text, activity_type, description, status, created_at, updated_at`

func scanActivity(row pgx.Row) (Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.FieldID, &a.ActivityType, &a.Description, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *PGRepository) ListActivitiesByField(ctx context.Context, fieldID string) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+activityColumns+` FROM activities WHERE field_id = $1 ORDER BY created_at, id`, fieldID)
	if err != nil {
		return nil, fmt.Errorf("farming: list activities: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Activity, error) {
		return scanActivity(row)
	})
}

func (r *PGRepository) UpdateActivityStatus(ctx context.Context, id, status string, at time.Time) (Activity, error) {
	row := r.pool.QueryRow(ctx, `UPDATE activities SET status = $2, updated_at = $3 WHERE id = $1
RETURNING `+activityColumns, id, status, at)
	a, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Activity{}, ErrActivityNotFound
		}
		return Activity{}, fmt.Errorf("farming: update activity: %w", err)
	}
	return a, nil
}

var _ Repository = (*PGRepository)(nil)
