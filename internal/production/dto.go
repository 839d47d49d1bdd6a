package production

type CreateRecordInput struct {
	Product        string  `json:"product" validate:"required,max=200"`
	Quantity       float64 `json:"quantity" validate:"gt=0"`
	Unit           string  `json:"unit" validate:"max=50"`
	StartDate      string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Area           float64 `json:"area" validate:"gte=0"`
	TotalCostCents int64   `json:"total_cost_cents" validate:"gte=0"`
	SaleValueCents int64   `json:"sale_value_cents" validate:"gte=0"`
	Notes          string  `json:"notes" validate:"max=2000"`
}
