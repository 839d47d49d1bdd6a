// Package production records harvests and other production cycles with
// their costs and sale value.
package production

import (
	"context"
	"sort"
	"strings"
	"time"

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

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Service) Create(ctx context.Context, in CreateRecordInput) (Record, error) {
	in.Product = strings.TrimSpace(in.Product)
	in.Unit = strings.TrimSpace(in.Unit)
	if err := s.validator.Struct(in); err != nil {
		return Record{}, httpx.ValidationError(err)
	}
	if in.StartDate != "" && in.EndDate != "" && in.EndDate < in.StartDate {
		return Record{}, httpx.NewError(httpx.ErrValidation, "end_date must not be before start_date")
	}
	rec := Record{
		ID:             uuid.NewString(),
		Product:        in.Product,
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Area:           in.Area,
		TotalCostCents: in.TotalCostCents,
		SaleValueCents: in.SaleValueCents,
		ProfitCents:    in.SaleValueCents - in.TotalCostCents,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	if !validID(id) {
		return Record{}, ErrRecordNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, product string) ([]Record, error) {
	return s.repo.List(ctx, strings.TrimSpace(product))
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrRecordNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Totals aggregates every record per product and unit. Products differing
// only in case are merged under the first spelling seen.
func (s *Service) Totals(ctx context.Context) ([]ProductTotals, error) {
	records, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*ProductTotals)
	for _, rec := range records {
		key := strings.ToLower(rec.Product) + "\x00" + rec.Unit
		t, ok := byKey[key]
		if !ok {
			t = &ProductTotals{Product: rec.Product, Unit: rec.Unit}
			byKey[key] = t
		}
		t.Records++
		t.Quantity += rec.Quantity
		t.TotalCostCents += rec.TotalCostCents
		t.SaleValueCents += rec.SaleValueCents
	}
	out := make([]ProductTotals, 0, len(byKey))
	for _, t := range byKey {
		t.ProfitCents = t.SaleValueCents - t.TotalCostCents
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := strings.ToLower(out[i].Product), strings.ToLower(out[j].Product)
		if pi == pj {
			return out[i].Unit < out[j].Unit
		}
		return pi < pj
	})
	return out, nil
}
