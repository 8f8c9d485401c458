package services

import (
	"context"

	"github.com/betcatalog/core/pkg/models"
	"github.com/betcatalog/core/pkg/provider"
	"github.com/betcatalog/core/pkg/repository"
)

// OddsClient is the slice of the provider client the ingestion service uses.
type OddsClient interface {
	ListSports(ctx context.Context) ([]provider.Sport, error)
	ListEventOdds(ctx context.Context, sportKey string) ([]provider.Event, error)
	GetEventOdds(ctx context.Context, sportKey, eventKey string) (*provider.Event, error)
}

// SportStore is the sport repository surface the ingestion service uses.
type SportStore interface {
	Create(ctx context.Context, data map[string]any) (*models.Sport, error)
	GetByID(ctx context.Context, id string) (*models.Sport, error)
	List(ctx context.Context, params repository.ListParams) (*repository.Page[models.Sport], error)
}

// EventStore is the event repository surface the ingestion service uses.
type EventStore interface {
	Create(ctx context.Context, data map[string]any) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, params repository.ListParams) (*repository.Page[models.Event], error)
}

// SelectionStore is the selection repository surface the ingestion service uses.
type SelectionStore interface {
	Create(ctx context.Context, data map[string]any) (*models.Selection, error)
	List(ctx context.Context, params repository.ListParams) (*repository.Page[models.Selection], error)
}
