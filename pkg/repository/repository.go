package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/betcatalog/core/pkg/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the database handle shared by the repositories. *pgxpool.Pool
// satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Page is one page of records plus the totals the list endpoints report.
type Page[T any] struct {
	Items      []T
	Total      int64
	PageNumber int
	PageOffset int
}

// translateDBError maps driver errors to the repository error taxonomy.
// Integrity violations become ConflictError with the constraint diagnostic;
// missing rows become ErrNotFound.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23503", "23514": // unique, foreign key, check
			detail := pgErr.Detail
			if detail == "" {
				detail = pgErr.Message
			}
			return &models.ConflictError{Constraint: pgErr.ConstraintName, Detail: detail}
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	return err
}

// buildSetClause renders "col1 = $1, col2 = $2, ..." in deterministic column
// order and returns the matching argument slice. Column names come from the
// fixed projection sets, never from client input.
func buildSetClause(fields map[string]any) (string, []any) {
	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	clause := ""
	args := make([]any, 0, len(columns))
	for i, column := range columns {
		if i > 0 {
			clause += ", "
		}
		clause += fmt.Sprintf("%s = $%d", column, i+1)
		args = append(args, fields[column])
	}
	return clause, args
}

// refreshActive recomputes the derived active flags for the lineage of the
// given event: the event follows its selections, the owning sport follows
// its events. Runs on the caller's transaction so the recomputation commits
// or rolls back together with the selection mutation that triggered it.
func refreshActive(ctx context.Context, tx pgx.Tx, eventID string) error {
	if _, err := tx.Exec(ctx,
		`UPDATE events
		 SET active = EXISTS (SELECT 1 FROM selections WHERE event_id = events.id AND active)
		 WHERE events.id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to refresh event active flag: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE sports
		 SET active = EXISTS (SELECT 1 FROM events WHERE sport_id = sports.id AND active)
		 WHERE sports.id = (SELECT sport_id FROM events WHERE id = $1)`, eventID); err != nil {
		return fmt.Errorf("failed to refresh sport active flag: %w", err)
	}

	return nil
}
