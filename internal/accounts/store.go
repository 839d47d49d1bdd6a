package accounts

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
)

// Store persists accounts keyed by folded username.
type Store interface {
	Insert(ctx context.Context, a Account) error
	FindByUsername(ctx context.Context, username string) (Account, error)
	Update(ctx context.Context, a Account) error
	List(ctx context.Context) ([]Account, error)
}

var folder = cases.Fold()

// FoldUsername returns the case-folded key under which username is unique.
func FoldUsername(username string) string {
	return folder.String(strings.TrimSpace(username))
}
