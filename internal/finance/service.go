// Package finance records suppliers, expenses and income and totals them
// into a cash-flow summary.
package finance

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/shared"
)

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

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func digits(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
}

func (s *Service) CreateSupplier(ctx context.Context, in CreateSupplierInput) (Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.CNPJ = strings.TrimSpace(in.CNPJ)
	if err := s.validate(in); err != nil {
		return Supplier{}, err
	}
	cnpj := digits(in.CNPJ)
	if in.CNPJ != "" && len(cnpj) != 14 {
		return Supplier{}, httpx.NewError(httpx.ErrValidation, "cnpj must have 14 digits")
	}
	sup := Supplier{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     in.Email,
		Address:   strings.TrimSpace(in.Address),
		CNPJ:      cnpj,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		return Supplier{}, err
	}
	return sup, nil
}

func (s *Service) GetSupplier(ctx context.Context, id string) (Supplier, error) {
	if !validID(id) {
		return Supplier{}, ErrSupplierNotFound
	}
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

// CreateExpense books an expense on behalf of the caller in ctx. Paid
// expenses are considered settled on their own date.
func (s *Service) CreateExpense(ctx context.Context, in CreateExpenseInput) (Expense, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.SupplierID = strings.TrimSpace(in.SupplierID)
	if err := s.validate(in); err != nil {
		return Expense{}, err
	}
	if in.SupplierID != "" && !validID(in.SupplierID) {
		return Expense{}, ErrSupplierNotFound
	}
	paid := in.Paid == nil || *in.Paid
	e := Expense{
		ID:            uuid.NewString(),
		Description:   in.Description,
		AmountCents:   in.AmountCents,
		Date:          in.Date,
		Category:      in.Category,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		SupplierID:    in.SupplierID,
		Paid:          paid,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     s.now().UTC(),
	}
	if paid {
		e.PaidOn = in.Date
	}
	if p := shared.PrincipalFromContext(ctx); p != nil {
		e.CreatedBy = p.Username
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (s *Service) checkFilter(f Filter) error {
	if err := s.validate(filterInput{From: f.From, To: f.To}); err != nil {
		return err
	}
	if f.From != "" && f.To != "" && f.From > f.To {
		return httpx.NewError(httpx.ErrValidation, "from must not be after to")
	}
	return nil
}

func (s *Service) ListExpenses(ctx context.Context, f Filter) ([]Expense, error) {
	if err := s.checkFilter(f); err != nil {
		return nil, err
	}
	return s.repo.ListExpenses(ctx, f)
}

func (s *Service) MarkExpensePaid(ctx context.Context, id string, in MarkPaidInput) (Expense, error) {
	if err := s.validate(in); err != nil {
		return Expense{}, err
	}
	if !validID(id) {
		return Expense{}, ErrExpenseNotFound
	}
	return s.repo.MarkExpensePaid(ctx, id, in.PaidOn)
}

func (s *Service) CreateIncome(ctx context.Context, in CreateIncomeInput) (Income, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if err := s.validate(in); err != nil {
		return Income{}, err
	}
	inc := Income{
		ID:          uuid.NewString(),
		Description: in.Description,
		AmountCents: in.AmountCents,
		Date:        in.Date,
		Category:    in.Category,
		Customer:    strings.TrimSpace(in.Customer),
		Received:    in.Received == nil || *in.Received,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateIncome(ctx, inc); err != nil {
		return Income{}, err
	}
	return inc, nil
}

func (s *Service) ListIncome(ctx context.Context, f Filter) ([]Income, error) {
	if err := s.checkFilter(f); err != nil {
		return nil, err
	}
	return s.repo.ListIncome(ctx, f)
}

func (s *Service) MarkIncomeReceived(ctx context.Context, id string) (Income, error) {
	if !validID(id) {
		return Income{}, ErrIncomeNotFound
	}
	return s.repo.MarkIncomeReceived(ctx, id)
}

// Summarize totals income and expenses dated within the filter's period.
// The category filter is ignored.
func (s *Service) Summarize(ctx context.Context, f Filter) (Summary, error) {
	f.Category = ""
	if err := s.checkFilter(f); err != nil {
		return Summary{}, err
	}
	expenses, err := s.repo.ListExpenses(ctx, f)
	if err != nil {
		return Summary{}, err
	}
	income, err := s.repo.ListIncome(ctx, f)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{From: f.From, To: f.To, ExpensesByCategory: make(map[string]int64)}
	for _, e := range expenses {
		sum.ExpenseCents += e.AmountCents
		if !e.Paid {
			sum.PendingExpenseCents += e.AmountCents
		}
		sum.ExpensesByCategory[e.Category] += e.AmountCents
	}
	for _, in := range income {
		sum.IncomeCents += in.AmountCents
		if !in.Received {
			sum.PendingIncomeCents += in.AmountCents
		}
	}
	sum.BalanceCents = sum.IncomeCents - sum.ExpenseCents
	return sum, nil
}
