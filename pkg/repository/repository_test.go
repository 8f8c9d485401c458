package repository

import (
	"errors"
	"reflect"
	"testing"

	"github.com/betcatalog/core/pkg/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestBuildSetClause(t *testing.T) {
	clause, args := buildSetClause(map[string]any{
		"name":   "Football",
		"active": true,
	})

	// Columns come out in sorted order so the rendered SQL is deterministic.
	if clause != "active = $1, name = $2" {
		t.Errorf("clause = %q", clause)
	}
	if !reflect.DeepEqual(args, []any{true, "Football"}) {
		t.Errorf("args = %v", args)
	}
}

func TestTranslateDBError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantConflict bool
		wantNotFound bool
	}{
		{
			name:         "unique violation",
			err:          &pgconn.PgError{Code: "23505", ConstraintName: "unique_name_sport", Detail: "Key (name)=(Football) already exists."},
			wantConflict: true,
		},
		{
			name:         "foreign key violation",
			err:          &pgconn.PgError{Code: "23503", ConstraintName: "selections_event_id_fkey", Message: "violates foreign key"},
			wantConflict: true,
		},
		{
			name:         "check violation",
			err:          &pgconn.PgError{Code: "23514", ConstraintName: "check_actual_scheduled_start"},
			wantConflict: true,
		},
		{
			name:         "no rows",
			err:          pgx.ErrNoRows,
			wantNotFound: true,
		},
		{
			name: "anything else passes through",
			err:  errors.New("connection refused"),
		},
		{
			name: "nil stays nil",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateDBError(tt.err)

			var conflict *models.ConflictError
			if errors.As(got, &conflict) != tt.wantConflict {
				t.Errorf("conflict = %v, want %v (got %v)", !tt.wantConflict, tt.wantConflict, got)
			}
			if errors.Is(got, models.ErrNotFound) != tt.wantNotFound {
				t.Errorf("not-found = %v, want %v (got %v)", !tt.wantNotFound, tt.wantNotFound, got)
			}
			if tt.err != nil && !tt.wantConflict && !tt.wantNotFound && got != tt.err {
				t.Errorf("expected error to pass through unchanged, got %v", got)
			}
		})
	}
}

func TestTranslateDBError_ConflictDetail(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "unique_name_sport", Detail: "Key (name)=(Football) already exists."}

	var conflict *models.ConflictError
	if !errors.As(translateDBError(pgErr), &conflict) {
		t.Fatal("expected a conflict error")
	}
	if conflict.Constraint != "unique_name_sport" {
		t.Errorf("constraint = %q", conflict.Constraint)
	}
	if conflict.Detail != "Key (name)=(Football) already exists." {
		t.Errorf("detail = %q", conflict.Detail)
	}

	// Without a detail the driver message stands in.
	pgErr = &pgconn.PgError{Code: "23503", Message: "violates foreign key"}
	if !errors.As(translateDBError(pgErr), &conflict) {
		t.Fatal("expected a conflict error")
	}
	if conflict.Detail != "violates foreign key" {
		t.Errorf("detail = %q", conflict.Detail)
	}
}
