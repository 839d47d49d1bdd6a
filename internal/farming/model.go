package farming

import (
	"time"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

var (
	ErrFarmNotFound     = httpx.NewError(httpx.ErrNotFound, "farm not found")
	ErrFieldNotFound    = httpx.NewError(httpx.ErrNotFound, "field not found")
	ErrActivityNotFound = httpx.NewError(httpx.ErrNotFound, "activity not found")
)

// Crop and activity statuses.
const (
	CropActive = "active"

	ActivityPending    = "pending"
	ActivityInProgress = "in_progress"
	ActivityCompleted  = "completed"
	ActivityCancelled  = "cancelled"
)

type Farm struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

type Field struct {
	ID        string    `json:"id"`
	FarmID    string    `json:"farm_id"`
	Name      string    `json:"name"`
	Area      float64   `json:"area"`
	CreatedAt time.Time `json:"created_at"`
}

type Crop struct {
	ID           string    `json:"id"`
	FieldID      string    `json:"field_id"`
	CropType     string    `json:"crop_type"`
	PlantingDate string    `json:"planting_date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type Activity struct {
	ID           string    `json:"id"`
	FieldID      string    `json:"field_id"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
