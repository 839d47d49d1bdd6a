package production

import (
	"time"

	"github.com/agrogest/agrogest/internal/platform/httpx"
)

var ErrRecordNotFound = httpx.NewError(httpx.ErrNotFound, "production record not found")

// Record is one production cycle of a product, e.g. a soy harvest or a
// month of milk. ProfitCents is derived and never stored.
type Record struct {
	ID             string    `json:"id"`
	Product        string    `json:"product"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	StartDate      string    `json:"start_date,omitempty"`
	EndDate        string    `json:"end_date,omitempty"`
	Area           float64   `json:"area"`
	TotalCostCents int64     `json:"total_cost_cents"`
	SaleValueCents int64     `json:"sale_value_cents"`
	ProfitCents    int64     `json:"profit_cents"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProductTotals aggregates the records of one product.
type ProductTotals struct {
	Product        string  `json:"product"`
	Unit           string  `json:"unit"`
	Records        int     `json:"records"`
	Quantity       float64 `json:"quantity"`
	TotalCostCents int64   `json:"total_cost_cents"`
	SaleValueCents int64   `json:"sale_value_cents"`
	ProfitCents    int64   `json:"profit_cents"`
}
