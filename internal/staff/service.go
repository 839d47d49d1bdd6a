// Package staff keeps the employee roster and the payments made to it.
package staff

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/agrogest/agrogest/internal/platform/httpx"
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

// NormalizeCPF strips punctuation so "123.456.789-09" and "12345678909"
// name the same person.
func NormalizeCPF(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
}

// CreateEmployee hires a new, active employee.
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (Employee, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.CPF = strings.TrimSpace(in.CPF)
	if err := s.validate(in); err != nil {
		return Employee{}, err
	}
	cpf := NormalizeCPF(in.CPF)
	if in.CPF != "" && len(cpf) != 11 {
		return Employee{}, httpx.NewError(httpx.ErrValidation, "cpf must have 11 digits")
	}
	e := Employee{
		ID:          uuid.NewString(),
		Name:        in.Name,
		CPF:         cpf,
		Position:    strings.TrimSpace(in.Position),
		HireDate:    in.HireDate,
		SalaryCents: in.SalaryCents,
		Active:      true,
		Phone:       strings.TrimSpace(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	if !validID(id) {
		return Employee{}, ErrEmployeeNotFound
	}
	return s.repo.GetEmployee(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	return s.repo.ListEmployees(ctx, activeOnly)
}

// SetActive deactivates or reactivates an employee. Repeating the current
// state is not an error.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (Employee, error) {
	if !validID(id) {
		return Employee{}, ErrEmployeeNotFound
	}
	return s.repo.SetEmployeeActive(ctx, id, active)
}

// RecordPayment books a payment to an active employee.
func (s *Service) RecordPayment(ctx context.Context, in CreatePaymentInput) (Payment, error) {
	if err := s.validate(in); err != nil {
		return Payment{}, err
	}
	e, err := s.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return Payment{}, err
	}
	if !e.Active {
		return Payment{}, ErrEmployeeInactive
	}
	p := Payment{
		ID:          uuid.NewString(),
		EmployeeID:  e.ID,
		Date:        in.Date,
		AmountCents: in.AmountCents,
		Kind:        in.Kind,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return Payment{}, err
	}
	return p, nil
}

// Payments returns an employee's payments, newest first, and their sum.
func (s *Service) Payments(ctx context.Context, employeeID string) ([]Payment, int64, error) {
	if _, err := s.GetEmployee(ctx, employeeID); err != nil {
		return nil, 0, err
	}
	payments, err := s.repo.ListPayments(ctx, employeeID)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	for _, p := range payments {
		total += p.AmountCents
	}
	return payments, total, nil
}
