package farming

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

// MemoryRepository keeps farm entities in process.
type MemoryRepository struct {
	mu         sync.RWMutex
	farms      map[string]Farm
	fields     map[string]Field
	crops      map[string]Crop
	activities map[string]Activity
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		farms:      make(map[string]Farm),
		fields:     make(map[string]Field),
		crops:      make(map[string]Crop),
		activities: make(map[string]Activity),
	}
}

func (r *MemoryRepository) CreateFarm(_ context.Context, f Farm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.farms[f.ID] = f
	return nil
}

func (r *MemoryRepository) GetFarm(_ context.Context, id string) (Farm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.farms[id]
	if !ok {
		return Farm{}, ErrFarmNotFound
	}
	return f, nil
}

func (r *MemoryRepository) ListFarms(_ context.Context, limit, offset int) ([]Farm, int, error) {
	if offset < 0 || limit < 0 {
		return nil, 0, httpx.NewError(httpx.ErrValidation, "limit and offset must not be negative")
	}
	r.mu.RLock()
	out := make([]Farm, 0, len(r.farms))
	for _, f := range r.farms {
		out = append(out, f)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	total := len(out)
	if offset >= total {
		return []Farm{}, total, nil
	}
	end := total
	if limit > 0 && limit < total-offset {
		end = offset + limit
	}
	return out[offset:end], total, nil
}

func (r *MemoryRepository) CreateField(_ context.Context, f Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.farms[f.FarmID]; !ok {
		return ErrFarmNotFound
	}
	r.fields[f.ID] = f
	return nil
}

func (r *MemoryRepository) GetField(_ context.Context, id string) (Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fields[id]
	if !ok {
		return Field{}, ErrFieldNotFound
	}
	return f, nil
}

func (r *MemoryRepository) ListFieldsByFarm(_ context.Context, farmID string) ([]Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Field{}
	for _, f := range r.fields {
		if f.FarmID == farmID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt) || (out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ID < out[j].ID)
	})
	return out, nil
}

func (r *MemoryRepository) CreateCrop(_ context.Context, c Crop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fields[c.FieldID]; !ok {
		return ErrFieldNotFound
	}
	r.crops[c.ID] = c
	return nil
}

func (r *MemoryRepository) ListCropsByField(_ context.Context, fieldID string) ([]Crop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Crop{}
	for _, c := range r.crops {
		if c.FieldID == fieldID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlantingDate == out[j].PlantingDate {
			return out[i].ID < out[j].ID
		}
		return out[i].PlantingDate < out[j].PlantingDate
	})
	return out, nil
}

func (r *MemoryRepository) CreateActivity(_ context.Context, a Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fields[a.FieldID]; !ok {
		return ErrFieldNotFound
	}
	r.activities[a.ID] = a
	return nil
}

func (r *MemoryRepository) ListActivitiesByField(_ context.Context, fieldID string) ([]Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Activity{}
	for _, a := range r.activities {
		if a.FieldID == fieldID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt) || (out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ID < out[j].ID)
	})
	return out, nil
}

func (r *MemoryRepository) UpdateActivityStatus(_ context.Context, id, status string, at time.Time) (Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	a.Status = status
	a.UpdatedAt = at
	r.activities[id] = a
	return a, nil
}

var _ Repository = (*MemoryRepository)(nil)
