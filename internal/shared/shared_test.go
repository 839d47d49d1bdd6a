package shared

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalContext(t *testing.T) {
	assert.Nil(t, PrincipalFromContext(context.Background()))

	p := &Principal{AccountID: "1", Username: "admin", Role: "admin"}
	ctx := ContextWithPrincipal(context.Background(), p)
	assert.Same(t, p, PrincipalFromContext(ctx))
}

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain")))
}

func TestAuditLogValidate(t *testing.T) {
	require.NoError(t, AuditLog{Action: EventLoginFailed, Entity: "account", EntityID: "admin"}.Validate())
	require.Error(t, AuditLog{Action: EventLoginFailed, Entity: "account"}.Validate())

	var nilLogger *AuditLogger
	require.Error(t, nilLogger.Record(context.Background(), AuditLog{}))
	require.NoError(t, NopAuditPublisher{}.Publish(context.Background(), AuditLog{}))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PerPage: 20, Total: 0, TotalPages: 0}, NewPagination(0, 0, 0))
	assert.Equal(t, Pagination{Page: 2, PerPage: 10, Total: 21, TotalPages: 3}, NewPagination(2, 10, 21))
}
