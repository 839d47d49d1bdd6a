package finance

type CreateSupplierInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Address string `json:"address" validate:"max=500"`
	CNPJ    string `json:"cnpj" validate:"max=18"`
	Notes   string `json:"notes" validate:"max=2000"`
}

// CreateExpenseInput leaves Paid nil to mean paid, as most expenses are
// entered after the fact.
type CreateExpenseInput struct {
	Description   string `json:"description" validate:"required,max=500"`
	AmountCents   int64  `json:"amount_cents" validate:"gt=0"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Category      string `json:"category" validate:"max=100"`
	PaymentMethod string `json:"payment_method" validate:"max=100"`
	SupplierID    string `json:"supplier_id"`
	Paid          *bool  `json:"paid"`
	Notes         string `json:"notes" validate:"max=2000"`
}

type MarkPaidInput struct {
	PaidOn string `json:"paid_on" validate:"required,datetime=2006-01-02"`
}

// CreateIncomeInput leaves Received nil to mean received.
type CreateIncomeInput struct {
	Description string `json:"description" validate:"required,max=500"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Category    string `json:"category" validate:"max=100"`
	Customer    string `json:"customer" validate:"max=200"`
	Received    *bool  `json:"received"`
	Notes       string `json:"notes" validate:"max=2000"`
}

type filterInput struct {
	From string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" validate:"omitempty,datetime=2006-01-02"`
}
