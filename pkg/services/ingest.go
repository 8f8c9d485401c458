package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/betcatalog/core/internal/config"
	"github.com/betcatalog/core/pkg/logger"
	"github.com/betcatalog/core/pkg/models"
	"github.com/betcatalog/core/pkg/provider"
	"github.com/betcatalog/core/pkg/repository"
	"github.com/betcatalog/core/pkg/utils"
)

// IngestService pulls records from the external odds provider and creates
// the corresponding catalog entities, skipping ones that already exist.
// Per-call creation counts are bounded by the ingestion config; a provider
// failure aborts the call without retry, so records created before the
// failure stand.
type IngestService struct {
	sports     SportStore
	events     EventStore
	selections SelectionStore
	client     OddsClient
	cfg        config.IngestionConfig
	logger     *logger.Logger
}

func NewIngestService(sports SportStore, events EventStore, selections SelectionStore, client OddsClient, cfg config.IngestionConfig, log *logger.Logger) *IngestService {
	return &IngestService{
		sports:     sports,
		events:     events,
		selections: selections,
		client:     client,
		cfg:        cfg,
		logger:     log,
	}
}

// IngestSports creates up to count sports from the provider catalog.
// count <= 0 means everything the provider offers.
func (s *IngestService) IngestSports(ctx context.Context, count int) (int, error) {
	providerSports, err := s.client.ListSports(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch provider sports: %w", err)
	}

	s.logger.Info().
		Str("action", "ingest_sports").
		Int("available", len(providerSports)).
		Int("requested", count).
		Msg("Starting sports ingestion")

	created := 0
	for _, ps := range providerSports {
		if count > 0 && created >= count {
			break
		}
		if ps.Title == "" {
			continue
		}

		exists, err := s.sportExists(ctx, ps.Title)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		if _, err := s.sports.Create(ctx, map[string]any{
			"name":           ps.Title,
			"url_identifier": utils.SportSlug(ps.Title),
		}); err != nil {
			if s.skippable(err, "sport", ps.Title) {
				continue
			}
			return created, err
		}
		created++
	}

	return created, nil
}

// IngestEvents creates up to count events for the given sport from the
// provider's odds feed. The per-call event cap from the ingestion config
// still applies.
func (s *IngestService) IngestEvents(ctx context.Context, sportID string, count int) (int, error) {
	sport, err := s.sports.GetByID(ctx, sportID)
	if err != nil {
		return 0, err
	}

	providerEvents, err := s.client.ListEventOdds(ctx, sport.URLIdentifier)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch provider events: %w", err)
	}

	limit := capCount(count, s.cfg.MaxEventsPerCall)

	s.logger.Info().
		Str("action", "ingest_events").
		Str("sport_id", sportID).
		Int("available", len(providerEvents)).
		Int("limit", limit).
		Msg("Starting events ingestion")

	created := 0
	for _, pe := range providerEvents {
		if created >= limit {
			break
		}

		name := fmt.Sprintf("%s vs %s", pe.HomeTeam, pe.AwayTeam)
		exists, err := s.eventExists(ctx, name)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		if _, err := s.events.Create(ctx, map[string]any{
			"name":            name,
			"url_identifier":  utils.EventSlug(pe.HomeTeam, pe.AwayTeam),
			"type":            models.EventTypePreplay,
			"sport_id":        sportID,
			"status":          models.EventStatusPending,
			"scheduled_start": pe.CommenceTime.UTC().Format("2006-01-02 15:04:05"),
		}); err != nil {
			if s.skippable(err, "event", name) {
				continue
			}
			return created, err
		}
		created++
	}

	return created, nil
}

// IngestSelections creates up to count selections for the given event from
// the first bookmaker's head-to-head market. The per-call selection cap
// from the ingestion config still applies.
func (s *IngestService) IngestSelections(ctx context.Context, sportID, eventID string, count int) (int, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if event.SportID != sportID {
		return 0, models.ErrNotFound
	}

	sport, err := s.sports.GetByID(ctx, sportID)
	if err != nil {
		return 0, err
	}

	providerEvent, err := s.client.GetEventOdds(ctx, sport.URLIdentifier, event.URLIdentifier)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch provider odds: %w", err)
	}

	outcomes := headToHeadOutcomes(providerEvent)
	limit := capCount(count, s.cfg.MaxSelectionsPerCall)

	s.logger.Info().
		Str("action", "ingest_selections").
		Str("event_id", eventID).
		Int("available", len(outcomes)).
		Int("limit", limit).
		Msg("Starting selections ingestion")

	created := 0
	for _, outcome := range outcomes {
		if created >= limit {
			break
		}

		exists, err := s.selectionExists(ctx, eventID, outcome.Name)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		if _, err := s.selections.Create(ctx, map[string]any{
			"name":     outcome.Name,
			"event_id": eventID,
			"price":    outcome.Price,
			"active":   true,
			"outcome":  models.OutcomeUnsettled,
		}); err != nil {
			if s.skippable(err, "selection", outcome.Name) {
				continue
			}
			return created, err
		}
		created++
	}

	return created, nil
}

func (s *IngestService) sportExists(ctx context.Context, name string) (bool, error) {
	page, err := s.sports.List(ctx, exactMatch(name))
	if err != nil {
		return false, fmt.Errorf("failed to look up sport %q: %w", name, err)
	}
	return page.Total > 0, nil
}

func (s *IngestService) eventExists(ctx context.Context, name string) (bool, error) {
	page, err := s.events.List(ctx, exactMatch(name))
	if err != nil {
		return false, fmt.Errorf("failed to look up event %q: %w", name, err)
	}
	return page.Total > 0, nil
}

// selectionExists checks for the name within the target event only; the
// same outcome name on another event does not count as a duplicate.
func (s *IngestService) selectionExists(ctx context.Context, eventID, name string) (bool, error) {
	params := exactMatch(name)
	params.EventID = eventID
	page, err := s.selections.List(ctx, params)
	if err != nil {
		return false, fmt.Errorf("failed to look up selection %q: %w", name, err)
	}
	return page.Total > 0, nil
}

// skippable reports whether a create failure should only skip the record.
// Conflicts mean the record appeared between lookup and insert, or a slug
// collided; either way ingestion moves on.
func (s *IngestService) skippable(err error, entity, name string) bool {
	var conflict *models.ConflictError
	if errors.As(err, &conflict) {
		s.logger.Warn().
			Str("action", "ingest_skip_conflict").
			Str("entity", entity).
			Str("name", name).
			Str("detail", conflict.Detail).
			Msg("Skipping record that already exists")
		return true
	}
	return false
}

// exactMatch builds list params that look a record up by exact name using
// the case-insensitive regex filter.
func exactMatch(name string) repository.ListParams {
	return repository.ListParams{
		Page:       1,
		PageOffset: 1,
		Pattern:    "^" + regexp.QuoteMeta(name) + "$",
	}
}

func capCount(requested, max int) int {
	if requested <= 0 || requested > max {
		return max
	}
	return requested
}

func headToHeadOutcomes(event *provider.Event) []provider.Outcome {
	for _, bookmaker := range event.Bookmakers {
		for _, market := range bookmaker.Markets {
			if market.Key == "h2h" && len(market.Outcomes) > 0 {
				return market.Outcomes
			}
		}
	}
	return nil
}
