package finance

import "context"

// Repository persists suppliers, expenses and income. Supplier names are
// unique ignoring case.
type Repository interface {
	CreateSupplier(ctx context.Context, s Supplier) error
	GetSupplier(ctx context.Context, id string) (Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)

	// CreateExpense returns ErrSupplierNotFound when SupplierID names no supplier.
	CreateExpense(ctx context.Context, e Expense) error
	ListExpenses(ctx context.Context, f Filter) ([]Expense, error)
	MarkExpensePaid(ctx context.Context, id, paidOn string) (Expense, error)

	CreateIncome(ctx context.Context, in Income) error
	ListIncome(ctx context.Context, f Filter) ([]Income, error)
	MarkIncomeReceived(ctx context.Context, id string) (Income, error)
}
