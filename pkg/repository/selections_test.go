package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/betcatalog/core/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// stubRow satisfies pgx.Row with a canned Scan.
type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

// stubTx records the calls a mutation makes so the tests can assert the
// transaction shape: mutation first, lineage refresh next, commit last.
type stubTx struct {
	calls   []string
	row     pgx.Row
	execErr error
}

func (t *stubTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *stubTx) Commit(ctx context.Context) error {
	t.calls = append(t.calls, "commit")
	return nil
}

func (t *stubTx) Rollback(ctx context.Context) error {
	t.calls = append(t.calls, "rollback")
	return nil
}

func (t *stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *stubTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *stubTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.calls = append(t.calls, "exec:"+sql)
	if t.execErr != nil {
		return pgconn.CommandTag{}, t.execErr
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (t *stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (t *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.calls = append(t.calls, "queryrow:"+sql)
	return t.row
}

func (t *stubTx) Conn() *pgx.Conn { return nil }

// stubDB satisfies the DB interface for mutations that never reach a real
// pool.
type stubDB struct {
	tx      *stubTx
	execTag pgconn.CommandTag
	execErr error
}

func (d *stubDB) Begin(ctx context.Context) (pgx.Tx, error) { return d.tx, nil }

func (d *stubDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return d.execTag, d.execErr
}

func (d *stubDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (d *stubDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
}

func selectionRow(id int64, eventID string) pgx.Row {
	return stubRow{scan: func(dest ...any) error {
		*(dest[0].(*int64)) = id
		*(dest[1].(*string)) = "Arsenal"
		*(dest[2].(*string)) = eventID
		*(dest[4].(*bool)) = true
		*(dest[6].(*time.Time)) = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		return nil
	}}
}

// callIndex returns the position of the first recorded call containing the
// fragment, or -1.
func callIndex(calls []string, fragment string) int {
	for i, call := range calls {
		if strings.Contains(call, fragment) {
			return i
		}
	}
	return -1
}

func TestSelectionCreateRefreshesLineage(t *testing.T) {
	tx := &stubTx{row: selectionRow(7, "event-1")}
	repo := NewSelectionRepository(&stubDB{tx: tx}, logger.New("test"))

	selection, err := repo.Create(context.Background(), map[string]any{
		"name":     "Arsenal",
		"event_id": "event-1",
		"price":    2.1,
		"active":   true,
		"outcome":  "Unsettled",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if selection.ID != 7 || selection.EventID != "event-1" {
		t.Errorf("selection = %+v", selection)
	}

	insert := callIndex(tx.calls, "INSERT INTO selections")
	eventRefresh := callIndex(tx.calls, "UPDATE events")
	sportRefresh := callIndex(tx.calls, "UPDATE sports")
	commit := callIndex(tx.calls, "commit")
	if insert == -1 || eventRefresh == -1 || sportRefresh == -1 || commit == -1 {
		t.Fatalf("missing calls: %v", tx.calls)
	}
	if !(insert < eventRefresh && eventRefresh < sportRefresh && sportRefresh < commit) {
		t.Errorf("calls out of order: %v", tx.calls)
	}
}

func TestSelectionDeleteRefreshesLineage(t *testing.T) {
	tx := &stubTx{row: stubRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "event-1"
		return nil
	}}}
	repo := NewSelectionRepository(&stubDB{tx: tx}, logger.New("test"))

	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	del := callIndex(tx.calls, "DELETE FROM selections")
	eventRefresh := callIndex(tx.calls, "UPDATE events")
	sportRefresh := callIndex(tx.calls, "UPDATE sports")
	commit := callIndex(tx.calls, "commit")
	if del == -1 || eventRefresh == -1 || sportRefresh == -1 || commit == -1 {
		t.Fatalf("missing calls: %v", tx.calls)
	}
	if !(del < eventRefresh && sportRefresh < commit) {
		t.Errorf("calls out of order: %v", tx.calls)
	}
}

func TestSelectionCreateRefreshFailureRollsBack(t *testing.T) {
	tx := &stubTx{
		row:     selectionRow(7, "event-1"),
		execErr: errors.New("connection reset"),
	}
	repo := NewSelectionRepository(&stubDB{tx: tx}, logger.New("test"))

	_, err := repo.Create(context.Background(), map[string]any{
		"name":     "Arsenal",
		"event_id": "event-1",
		"active":   true,
		"outcome":  "Unsettled",
	})
	if err == nil {
		t.Fatal("expected an error when the refresh fails")
	}

	if callIndex(tx.calls, "commit") != -1 {
		t.Errorf("transaction committed despite refresh failure: %v", tx.calls)
	}
	if callIndex(tx.calls, "rollback") == -1 {
		t.Errorf("transaction not rolled back: %v", tx.calls)
	}
}

func TestRefreshActiveScopesLineage(t *testing.T) {
	tx := &stubTx{}

	if err := refreshActive(context.Background(), tx, "event-1"); err != nil {
		t.Fatalf("refreshActive() error = %v", err)
	}
	if len(tx.calls) != 2 {
		t.Fatalf("calls = %v, want event then sport update", tx.calls)
	}

	eventSQL := tx.calls[0]
	if !strings.Contains(eventSQL, "UPDATE events") ||
		!strings.Contains(eventSQL, "EXISTS (SELECT 1 FROM selections WHERE event_id = events.id AND active)") ||
		!strings.Contains(eventSQL, "WHERE events.id = $1") {
		t.Errorf("event refresh SQL = %q", eventSQL)
	}

	sportSQL := tx.calls[1]
	if !strings.Contains(sportSQL, "UPDATE sports") ||
		!strings.Contains(sportSQL, "EXISTS (SELECT 1 FROM events WHERE sport_id = sports.id AND active)") ||
		!strings.Contains(sportSQL, "(SELECT sport_id FROM events WHERE id = $1)") {
		t.Errorf("sport refresh SQL = %q", sportSQL)
	}
}

func TestPriceArg(t *testing.T) {
	got := priceArg(2.35)
	dec, ok := got.(decimal.Decimal)
	if !ok {
		t.Fatalf("expected decimal.Decimal, got %T", got)
	}
	if !dec.Equal(decimal.NewFromFloat(2.35)) {
		t.Errorf("price = %s, want 2.35", dec)
	}

	if priceArg(nil) != nil {
		t.Error("nil price should stay nil")
	}
	if priceArg("2.35") != nil {
		t.Error("non-numeric price should map to nil")
	}
}
