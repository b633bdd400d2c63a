// FilePath: internal/repository/sqlstore/sqlstore.baserepo.go
package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/tilthub/brewmonitor/internal/database"
	"github.com/tilthub/brewmonitor/internal/errors"
)

// BaseRepo carries the shared connection handle and bindvar plumbing. All
// queries are written with ? placeholders and rebound for the active driver.
type BaseRepo struct {
	db database.DB
}

func (r *BaseRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *BaseRepo) rebind(query string) string {
	return r.db.GetDB().Rebind(query)
}

// insertID executes an insert and returns the assigned surrogate key.
// PostgreSQL has no LastInsertId, so the statement grows a RETURNING clause
// there; SQLite goes through the driver's last-rowid mechanism.
func (r *BaseRepo) insertID(ctx context.Context, query string, args ...interface{}) (int64, error) {
	q := r.rebind(query)
	if r.db.DriverName() == "postgres" {
		var id int64
		if err := r.db.GetDB().QueryRowxContext(ctx, q+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, errors.NewDatabaseError("failed to insert row", err)
		}
		return id, nil
	}
	result, err := r.db.GetDB().ExecContext(ctx, q, args...)
	if err != nil {
		return 0, errors.NewDatabaseError("failed to insert row", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to read inserted id", err)
	}
	return id, nil
}

func (r *BaseRepo) execTx(ctx context.Context, tx database.Transaction, query string, args ...interface{}) (sql.Result, error) {
	result, err := tx.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to execute statement", err)
	}
	return result, nil
}

// Timestamps are persisted as RFC3339 UTC text in both dialects; the fixed
// width and trailing Z make lexical order match chronological order.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, errors.NewDatabaseError("malformed stored timestamp", err)
	}
	return &t, nil
}
