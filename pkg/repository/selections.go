package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/betcatalog/core/pkg/logger"
	"github.com/betcatalog/core/pkg/models"
	"github.com/betcatalog/core/pkg/validation"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const selectionColumns = "id, name, event_id, price, active, outcome, created_at, updated_at"

// SelectionRepository persists the leaf level of the catalog. Every mutation
// runs in a transaction that ends with the derived-active recomputation for
// the affected event and sport, so the invariant holds after every commit.
type SelectionRepository struct {
	db     DB
	logger *logger.Logger
}

func NewSelectionRepository(db DB, log *logger.Logger) *SelectionRepository {
	return &SelectionRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new selection and refreshes the parent active flags in
// the same transaction.
func (r *SelectionRepository) Create(ctx context.Context, data map[string]any) (*models.Selection, error) {
	sanitized, errs := validation.Validate(models.SelectionSchema, data, models.SelectionRestrictedCreateCols)
	if len(errs) > 0 {
		return nil, &models.ValidationError{Fields: errs}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		`INSERT INTO selections (name, event_id, price, active, outcome)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+selectionColumns,
		sanitized["name"],
		sanitized["event_id"],
		priceArg(sanitized["price"]),
		sanitized["active"],
		sanitized["outcome"])

	selection, err := scanSelection(row)
	if err != nil {
		return nil, translateDBError(err)
	}

	if err := refreshActive(ctx, tx, selection.EventID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit selection create: %w", err)
	}

	r.logger.Info().
		Str("action", "selection_created").
		Int64("selection_id", selection.ID).
		Str("event_id", selection.EventID).
		Bool("active", selection.Active).
		Msg("Selection created")

	return selection, nil
}

// GetByID returns a single selection or models.ErrNotFound.
func (r *SelectionRepository) GetByID(ctx context.Context, id int64) (*models.Selection, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectionColumns+` FROM selections WHERE id = $1`, id)

	selection, err := scanSelection(row)
	if err != nil {
		return nil, translateDBError(err)
	}
	return selection, nil
}

// List returns a filtered, sorted page of selections plus the total match
// count. The regex filter applies to the name only; selections have no
// url_identifier.
func (r *SelectionRepository) List(ctx context.Context, params ListParams) (*Page[models.Selection], error) {
	listSQL, listArgs, countSQL, countArgs, err := buildListQuery(
		"selections", selectionColumns, []string{"name"}, params)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	selections := make([]models.Selection, 0)
	for rows.Next() {
		selection, err := scanSelection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections = append(selections, *selection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read selections: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count selections: %w", err)
	}

	normalized := params.normalized()
	return &Page[models.Selection]{
		Items:      selections,
		Total:      total,
		PageNumber: normalized.Page,
		PageOffset: normalized.PageOffset,
	}, nil
}

// Update patches a selection by id and refreshes the parent active flags in
// the same transaction. event_id is immutable and silently dropped along
// with the other restricted fields.
func (r *SelectionRepository) Update(ctx context.Context, id int64, data map[string]any) (*models.Selection, error) {
	update := models.ProjectColumns(data, models.SelectionUpdateColumns)

	sanitized, errs := validation.ValidatePartial(models.SelectionSchema, update, models.SelectionRestrictedUpdateCols)
	if len(errs) > 0 {
		return nil, &models.ValidationError{Fields: errs}
	}
	if len(sanitized) == 0 {
		return nil, models.ErrNoUpdateFields
	}
	if price, ok := sanitized["price"]; ok {
		sanitized["price"] = priceArg(price)
	}
	sanitized["updated_at"] = time.Now().UTC()

	setClause, args := buildSetClause(sanitized)
	args = append(args, id)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx,
		fmt.Sprintf(`UPDATE selections SET %s WHERE id = $%d RETURNING %s`, setClause, len(args), selectionColumns),
		args...)

	selection, err := scanSelection(row)
	if err != nil {
		return nil, translateDBError(err)
	}

	if err := refreshActive(ctx, tx, selection.EventID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit selection update: %w", err)
	}

	r.logger.Info().
		Str("action", "selection_updated").
		Int64("selection_id", id).
		Bool("active", selection.Active).
		Msg("Selection updated")

	return selection, nil
}

// Delete removes a selection permanently and refreshes the parent active
// flags in the same transaction.
func (r *SelectionRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var eventID string
	if err := tx.QueryRow(ctx, `DELETE FROM selections WHERE id = $1 RETURNING event_id`, id).Scan(&eventID); err != nil {
		return translateDBError(err)
	}

	if err := refreshActive(ctx, tx, eventID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit selection delete: %w", err)
	}

	r.logger.Info().
		Str("action", "selection_deleted").
		Int64("selection_id", id).
		Str("event_id", eventID).
		Msg("Selection deleted")

	return nil
}

// priceArg converts the validator's float output into the decimal the
// price column stores. Nil stays nil.
func priceArg(value any) any {
	f, ok := value.(float64)
	if !ok {
		return nil
	}
	return decimal.NewFromFloat(f)
}

func scanSelection(row pgx.Row) (*models.Selection, error) {
	var selection models.Selection
	var outcome *string
	if err := row.Scan(
		&selection.ID,
		&selection.Name,
		&selection.EventID,
		&selection.Price,
		&selection.Active,
		&outcome,
		&selection.CreatedAt,
		&selection.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if outcome != nil {
		selection.Outcome = *outcome
	}
	return &selection, nil
}
