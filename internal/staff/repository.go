package staff

import "context"

// Repository persists employees and their payments. CreateEmployee returns
// ErrDuplicateCPF when another employee holds the same non-empty CPF.
type Repository interface {
	CreateEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
	SetEmployeeActive(ctx context.Context, id string, active bool) (Employee, error)

	CreatePayment(ctx context.Context, p Payment) error
	ListPayments(ctx context.Context, employeeID string) ([]Payment, error)
}
