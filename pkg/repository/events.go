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

const eventColumns = "id, name, url_identifier, active, type, sport_id, status, scheduled_start, actual_start, created_at, updated_at"

// EventRepository persists the middle level of the catalog. It owns the
// actual_start side effects of the status state machine.
type EventRepository struct {
	db     DB
	logger *logger.Logger
}

func NewEventRepository(db DB, log *logger.Logger) *EventRepository {
	return &EventRepository{
		db:     db,
		logger: log,
	}
}

// Create inserts a new event. Restricted fields in the input are reported
// as validation errors. New events start inactive; an event created already
// in Started state gets actual_start stamped to the current time.
// actual_start is never taken from the client.
func (r *EventRepository) Create(ctx context.Context, data map[string]any) (*models.Event, error) {
	sanitized, errs := validation.Validate(models.EventSchema, data, models.EventRestrictedCreateColumns)
	if len(errs) > 0 {
		return nil, &models.ValidationError{Fields: errs}
	}

	var actualStart *time.Time
	if sanitized["status"] == models.EventStatusStarted {
		now := time.Now().UTC()
		actualStart = &now
	}

	id := uuid.NewString()
	row := r.db.QueryRow(ctx,
		`INSERT INTO events (id, name, url_identifier, active, type, sport_id, status, scheduled_start, actual_start)
		 VALUES ($1, $2, $3, FALSE, $4, $5, $6, $7, $8)
		 RETURNING `+eventColumns,
		id,
		sanitized["name"],
		sanitized["url_identifier"],
		sanitized["type"],
		sanitized["sport_id"],
		sanitized["status"],
		sanitized["scheduled_start"],
		actualStart)

	event, err := scanEvent(row)
	if err != nil {
		return nil, translateDBError(err)
	}

	r.logger.Info().
		Str("action", "event_created").
		Str("event_id", event.ID).
		Str("sport_id", event.SportID).
		Str("status", event.Status).
		Msg("Event created")

	return event, nil
}

// GetByID returns a single event or models.ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	row := r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)

	event, err := scanEvent(row)
	if err != nil {
		return nil, translateDBError(err)
	}
	return event, nil
}

// List returns a filtered, sorted page of events plus the total match count.
func (r *EventRepository) List(ctx context.Context, params ListParams) (*Page[models.Event], error) {
	listSQL, listArgs, countSQL, countArgs, err := buildListQuery(
		"events", eventColumns, []string{"name", "url_identifier"}, params)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	normalized := params.normalized()
	return &Page[models.Event]{
		Items:      events,
		Total:      total,
		PageNumber: normalized.Page,
		PageOffset: normalized.PageOffset,
	}, nil
}

// Update patches an event by id. The existing row is loaded first so the
// status transition can stamp or clear actual_start: entering Started sets
// it to now, leaving Started clears it. sport_id is immutable and silently
// dropped along with the other restricted fields.
func (r *EventRepository) Update(ctx context.Context, id string, data map[string]any) (*models.Event, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := models.ProjectColumns(data, models.EventUpdateColumns)

	sanitized, errs := validation.ValidatePartial(models.EventSchema, update, models.EventRestrictedUpdateColumns)
	if len(errs) > 0 {
		return nil, &models.ValidationError{Fields: errs}
	}
	if len(sanitized) == 0 {
		return nil, models.ErrNoUpdateFields
	}

	if actualStart, transitioned := transitionActualStart(existing.Status, sanitized, time.Now().UTC()); transitioned {
		sanitized["actual_start"] = actualStart
	}
	sanitized["updated_at"] = time.Now().UTC()

	setClause, args := buildSetClause(sanitized)
	args = append(args, id)

	row := r.db.QueryRow(ctx,
		fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING %s`, setClause, len(args), eventColumns),
		args...)

	event, err := scanEvent(row)
	if err != nil {
		return nil, translateDBError(err)
	}

	r.logger.WithEntity("event", id).Info().
		Str("action", "event_updated").
		Str("status", event.Status).
		Msg("Event updated")

	return event, nil
}

// Delete removes an event permanently. An event that still owns selections
// fails on the foreign key and surfaces as a conflict error.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	r.logger.LogDatabaseOperation("delete", "events", int(tag.RowsAffected()), time.Since(start), err)
	if err != nil {
		return translateDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// transitionActualStart applies the status state machine side effect.
// Entering Started from any other state stamps actual_start with now;
// leaving Started clears it. Updates that do not change the status, or do
// not touch it at all, leave actual_start alone.
func transitionActualStart(currentStatus string, update map[string]any, now time.Time) (*time.Time, bool) {
	newStatus, ok := update["status"].(string)
	if !ok {
		return nil, false
	}

	if currentStatus != models.EventStatusStarted && newStatus == models.EventStatusStarted {
		return &now, true
	}
	if currentStatus == models.EventStatusStarted && newStatus != models.EventStatusStarted {
		return nil, true
	}
	return nil, false
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.URLIdentifier,
		&event.Active,
		&event.Type,
		&event.SportID,
		&event.Status,
		&event.ScheduledStart,
		&event.ActualStart,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}
