package farming

type CreateFarmInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=500"`
}

type CreateFieldInput struct {
	FarmID string  `json:"farm_id" validate:"required"`
	Name   string  `json:"name" validate:"required,max=200"`
	Area   float64 `json:"area" validate:"gt=0"`
}

type CreateCropInput struct {
	FieldID      string `json:"field_id" validate:"required"`
	CropType     string `json:"crop_type" validate:"required,max=200"`
	PlantingDate string `json:"planting_date" validate:"required,datetime=2006-01-02"`
}

type CreateActivityInput struct {
	FieldID      string `json:"field_id" validate:"required"`
	ActivityType string `json:"activity_type" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
}

type UpdateActivityInput struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}
