// Package farming serves farms, fields, crops and field activities.
package farming

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

// DefaultPageSize applies when a farm listing asks for no explicit size.
const DefaultPageSize = 20

// MaxPageSize caps farm listing page sizes.
const MaxPageSize = 100

type Service struct {
	repo      Repository
	validator *validator.Validate
	now       func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validator: httpx.NewValidator(), now: time.Now}
}

func (s *Service) validate(in any) error {
	if err := s.validator.Struct(in); err != nil {
		return httpx.ValidationError(err)
	}
	return nil
}

// validID reports whether id is a UUID; anything else cannot name a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Service) CreateFarm(ctx context.Context, in CreateFarmInput) (Farm, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if err := s.validate(in); err != nil {
		return Farm{}, err
	}
	f := Farm{ID: uuid.NewString(), Name: in.Name, Location: in.Location, CreatedAt: s.now().UTC()}
	if err := s.repo.CreateFarm(ctx, f); err != nil {
		return Farm{}, err
	}
	return f, nil
}

func (s *Service) GetFarm(ctx context.Context, id string) (Farm, error) {
	if !validID(id) {
		return Farm{}, ErrFarmNotFound
	}
	return s.repo.GetFarm(ctx, id)
}

// ListFarms returns one page of farms and the total count. Page numbers start at 1.
func (s *Service) ListFarms(ctx context.Context, page, perPage int) ([]Farm, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	// keeps (page-1)*perPage from overflowing into a negative offset
	if page > math.MaxInt/perPage {
		page = math.MaxInt / perPage
	}
	return s.repo.ListFarms(ctx, perPage, (page-1)*perPage)
}

func (s *Service) CreateField(ctx context.Context, in CreateFieldInput) (Field, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate(in); err != nil {
		return Field{}, err
	}
	if !validID(in.FarmID) {
		return Field{}, ErrFarmNotFound
	}
	f := Field{ID: uuid.NewString(), FarmID: in.FarmID, Name: in.Name, Area: in.Area, CreatedAt: s.now().UTC()}
	if err := s.repo.CreateField(ctx, f); err != nil {
		return Field{}, err
	}
	return f, nil
}

func (s *Service) ListFields(ctx context.Context, farmID string) ([]Field, error) {
	if _, err := s.GetFarm(ctx, farmID); err != nil {
		return nil, err
	}
	return s.repo.ListFieldsByFarm(ctx, farmID)
}

func (s *Service) CreateCrop(ctx context.Context, in CreateCropInput) (Crop, error) {
	in.CropType = strings.TrimSpace(in.CropType)
	if err := s.validate(in); err != nil {
		return Crop{}, err
	}
	if !validID(in.FieldID) {
		return Crop{}, ErrFieldNotFound
	}
	c := Crop{
		ID:           uuid.NewString(),
		FieldID:      in.FieldID,
		CropType:     in.CropType,
		PlantingDate: in.PlantingDate,
		Status:       CropActive,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateCrop(ctx, c); err != nil {
		return Crop{}, err
	}
	return c, nil
}

func (s *Service) ListCrops(ctx context.Context, fieldID string) ([]Crop, error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return nil, err
	}
	return s.repo.ListCropsByField(ctx, fieldID)
}

func (s *Service) CreateActivity(ctx context.Context, in CreateActivityInput) (Activity, error) {
	in.ActivityType = strings.TrimSpace(in.ActivityType)
	if err := s.validate(in); err != nil {
		return Activity{}, err
	}
	if !validID(in.FieldID) {
		return Activity{}, ErrFieldNotFound
	}
	now := s.now().UTC()
	a := Activity{
		ID:           uuid.NewString(),
		FieldID:      in.FieldID,
		ActivityType: in.ActivityType,
		Description:  strings.TrimSpace(in.Description),
		Status:       ActivityPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateActivity(ctx, a); err != nil {
		return Activity{}, err
	}
	return a, nil
}

func (s *Service) ListActivities(ctx context.Context, fieldID string) ([]Activity, error) {
	if err := s.requireField(ctx, fieldID); err != nil {
		return nil, err
	}
	return s.repo.ListActivitiesByField(ctx, fieldID)
}

func (s *Service) UpdateActivityStatus(ctx context.Context, id string, in UpdateActivityInput) (Activity, error) {
	if err := s.validate(in); err != nil {
		return Activity{}, err
	}
	if !validID(id) {
		return Activity{}, ErrActivityNotFound
	}
	return s.repo.UpdateActivityStatus(ctx, id, in.Status, s.now().UTC())
}

func (s *Service) requireField(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrFieldNotFound
	}
	_, err := s.repo.GetField(ctx, id)
	return err
}
