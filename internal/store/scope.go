package store

import (
	"context"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"claimcountdown.app/server/core/db"
)

// Scope is the organization a tenant store is bound to. The zero value is
// invalid; build one with NewScope.
type Scope struct {
	orgID int64
}

func NewScope(orgID int64) (Scope, error) {
	if orgID <= 0 {
		return Scope{}, ErrInvalidScope
	}
	return Scope{orgID: orgID}, nil
}

func (s Scope) OrganizationID() int64 {
	return s.orgID
}

func (s Scope) valid() bool {
	return s.orgID > 0
}

// tenantDB binds every statement to one organization. The organization id is
// always $1, so tenant SQL must filter on organization_id = $1 and number its
// own parameters from $2.
type tenantDB struct {
	db    db.DBTX
	scope Scope
}

func (t tenantDB) args(args []any) []any {
	return append([]any{t.scope.orgID}, args...)
}

func (t tenantDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if !t.scope.valid() {
		return pgconn.CommandTag{}, ErrInvalidScope
	}
	return t.db.Exec(ctx, sql, t.args(args)...)
}

func (t tenantDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if !t.scope.valid() {
		return nil, ErrInvalidScope
	}
	return t.db.Query(ctx, sql, t.args(args)...)
}

func (t tenantDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if !t.scope.valid() {
		return errRow{err: ErrInvalidScope}
	}
	return t.db.QueryRow(ctx, sql, t.args(args)...)
}

// CopyFrom bulk-inserts rows, prepending the organization_id column to each.
func (t tenantDB) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, rows [][]any) (int64, error) {
	if !t.scope.valid() {
		return 0, ErrInvalidScope
	}
	cols := append([]string{"organization_id"}, columns...)
	scoped := make([][]any, len(rows))
	for i, r := range rows {
		scoped[i] = append([]any{t.scope.orgID}, slices.Clone(r)...)
	}
	return t.db.CopyFrom(ctx, table, cols, pgx.CopyFromRows(scoped))
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
