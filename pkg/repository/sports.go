package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/betcatalog/core/pkg/logger"
	"github.com/betcatalog/core/pkg/models"
	"github.com/betcatalog/core/pkg/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sportColumns = "id, name, url_identifier, active, created_at, updated_at"

// SportRepository persists the root level of the catalog.
type SportRepository struct {
	db     DB
	logger *logger.Logger
}

func NewSportRepository(db DB, log *logger.Logger) *SportRepository {
	return &SportRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new sport. Restricted fields (id, active, timestamps)
// in the input are reported as validation errors, so they only ever take
// system-assigned values. New sports start inactive.
func (r *SportRepository) Create(ctx context.Context, data map[string]any) (*models.Sport, error) {
	sanitized, errs := validation.Validate(models.SportSchema, data, models.SportRestrictedColumns)
	if len(errs) > 0 {
		return nil, &models.ValidationError{Fields: errs}
	}

	id := uuid.NewString()
	row := r.db.QueryRow(ctx,
		`INSERT INTO sports (id, name, url_identifier, active)
		 VALUES ($1, $2, $3, FALSE)
		 RETURNING `+sportColumns,
		id, sanitized["name"], sanitized["url_identifier"])

	sport, err := scanSport(row)
	if err != nil {
		return nil, translateDBError(err)
	}

	r.logger.Info().
		Str("action", "sport_created").
		Str("sport_id", sport.ID).
		Str("name", sport.Name).
		Msg("Sport created")

	return sport, nil
}

// GetByID returns a single sport or models.ErrNotFound.
func (r *SportRepository) GetByID(ctx context.Context, id string) (*models.Sport, error) {
	row := r.db.QueryRow(ctx, `SELECT `+sportColumns+` FROM sports WHERE id = $1`, id)

	sport, err := scanSport(row)
	if err != nil {
		return nil, translateDBError(err)
	}
	return sport, nil
}

// List returns a filtered, sorted page of sports plus the total match count.
func (r *SportRepository) List(ctx context.Context, params ListParams) (*Page[models.Sport], error) {
	listSQL, listArgs, countSQL, countArgs, err := buildListQuery(
		"sports", sportColumns, []string{"name", "url_identifier"}, params)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sports: %w", err)
	}
	defer rows.Close()

	sports := make([]models.Sport, 0)
	for rows.Next() {
		sport, err := scanSport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sport: %w", err)
		}
		sports = append(sports, *sport)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sports: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count sports: %w", err)
	}

	normalized := params.normalized()
	return &Page[models.Sport]{
		Items:      sports,
		Total:      total,
		PageNumber: normalized.Page,
		PageOffset: normalized.PageOffset,
	}, nil
}

// Update patches a sport by id. Restricted fields in the input are silently
// dropped; an update that is empty after projection is an error rather than
// a no-op. updated_at is stamped on every successful update.
func (r *SportRepository) Update(ctx context.Context, id string, data map[string]any) (*models.Sport, error) {
	update := models.ProjectColumns(data, models.SportUpdateColumns)

	sanitized, errs := validation.ValidatePartial(models.SportSchema, update, models.SportRestrictedColumns)
	if len(errs) > 0 {
		return nil, &models.ValidationError{Fields: errs}
	}
	if len(sanitized) == 0 {
		return nil, models.ErrNoUpdateFields
	}
	sanitized["updated_at"] = time.Now().UTC()

	setClause, args := buildSetClause(sanitized)
	args = append(args, id)

	row := r.db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE sports SET %s WHERE id = $%d RETURNING %s`, setClause, len(args), sportColumns),
		args...)

	sport, err := scanSport(row)
	if err != nil {
		return nil, translateDBError(err)
	}

	r.logger.WithEntity("sport", id).Info().
		Str("action", "sport_updated").
		Msg("Sport updated")

	return sport, nil
}

// Delete removes a sport permanently. A sport that still owns events fails
// on the foreign key and surfaces as a conflict error.
func (r *SportRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM sports WHERE id = $1`, id)
	r.logger.LogDatabaseOperation("delete", "sports", int(tag.RowsAffected()), time.Since(start), err)
	if err != nil {
		return translateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanSport(row pgx.Row) (*models.Sport, error) {
	var sport models.Sport
	if err := row.Scan(
		&sport.ID,
		&sport.Name,
		&sport.URLIdentifier,
		&sport.Active,
		&sport.CreatedAt,
		&sport.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sport, nil
}
