package machinery

type CreateMachineInput struct {
	Name                  string `json:"name" validate:"required,max=200"`
	Model                 string `json:"model" validate:"max=200"`
	Year                  int    `json:"year" validate:"omitempty,min=1900,max=2100"`
	AcquisitionValueCents int64  `json:"acquisition_value_cents" validate:"gte=0"`
	AcquisitionDate       string `json:"acquisition_date" validate:"omitempty,datetime=2006-01-02"`
	Status                string `json:"status" validate:"omitempty,oneof=active maintenance inactive"`
	Notes                 string `json:"notes" validate:"max=2000"`
}

type UpdateMachineStatusInput struct {
	Status string `json:"status" validate:"required,oneof=active maintenance inactive"`
}

type CreateMaintenanceInput struct {
	MachineID   string `json:"machine_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Description string `json:"description" validate:"required,max=2000"`
	CostCents   int64  `json:"cost_cents" validate:"gte=0"`
	Responsible string `json:"responsible" validate:"max=200"`
}
