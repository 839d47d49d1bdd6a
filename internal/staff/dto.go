package staff

type CreateEmployeeInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	CPF         string `json:"cpf" validate:"max=14"`
	Position    string `json:"position" validate:"max=200"`
	HireDate    string `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	SalaryCents int64  `json:"salary_cents" validate:"gte=0"`
	Phone       string `json:"phone" validate:"max=50"`
	Address     string `json:"address" validate:"max=500"`
}

type CreatePaymentInput struct {
	EmployeeID  string `json:"employee_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Kind        string `json:"kind" validate:"required,oneof=salary advance bonus"`
	Notes       string `json:"notes" validate:"max=2000"`
}
