package farming

import (
	"context"
	"time"
)

// Repository persists farm entities. Lookups of missing rows return the
// matching ErrXNotFound value.
type Repository interface {
	CreateFarm(ctx context.Context, f Farm) error
	GetFarm(ctx context.Context, id string) (Farm, error)
	ListFarms(ctx context.Context, limit, offset int) ([]Farm, int, error)

	CreateField(ctx context.Context, f Field) error
	GetField(ctx context.Context, id string) (Field, error)
	ListFieldsByFarm(ctx context.Context, farmID string) ([]Field, error)

	CreateCrop(ctx context.Context, c Crop) error
	ListCropsByField(ctx context.Context, fieldID string) ([]Crop, error)

	CreateActivity(ctx context.Context, a Activity) error
	ListActivitiesByField(ctx context.Context, fieldID string) ([]Activity, error)
	UpdateActivityStatus(ctx context.Context, id, status string, at time.Time) (Activity, error)
}
