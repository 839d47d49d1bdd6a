package finance

import (
	"time"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

var (
	ErrSupplierNotFound  = httpx.NewError(httpx.ErrNotFound, "supplier not found")
	ErrExpenseNotFound   = httpx.NewError(httpx.ErrNotFound, "expense not found")
	ErrIncomeNotFound    = httpx.NewError(httpx.ErrNotFound, "income not found")
	ErrDuplicateSupplier = httpx.NewError(httpx.ErrDuplicate, "supplier already exists")
)

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CNPJ      string    `json:"cnpj,omitempty"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Expense is money leaving the farm. PaidOn is set once Paid is true.
type Expense struct {
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	AmountCents   int64     `json:"amount_cents"`
	Date          string    `json:"date"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method"`
	SupplierID    string    `json:"supplier_id,omitempty"`
	Paid          bool      `json:"paid"`
	PaidOn        string    `json:"paid_on,omitempty"`
	Notes         string    `json:"notes"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// Income is money entering the farm.
type Income struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	Customer    string    `json:"customer"`
	Received    bool      `json:"received"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter narrows expense and income listings. Dates are inclusive
// YYYY-MM-DD bounds; empty fields do not filter.
type Filter struct {
	From     string
	To       string
	Category string
}

// Summary totals a period's cash flow. Pending amounts are included in the
// totals.
type Summary struct {
	From                string           `json:"from,omitempty"`
	To                  string           `json:"to,omitempty"`
	IncomeCents         int64            `json:"income_cents"`
	ExpenseCents        int64            `json:"expense_cents"`
	BalanceCents        int64            `json:"balance_cents"`
	PendingIncomeCents  int64            `json:"pending_income_cents"`
	PendingExpenseCents int64            `json:"pending_expense_cents"`
	ExpensesByCategory  map[string]int64 `json:"expenses_by_category"`
}
