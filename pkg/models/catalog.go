package models

import (
	"time"

	"github.com/betcatalog/core/pkg/validation"
	"github.com/shopspring/decimal"
)

// Event lifecycle states. actual_start is stamped when an event enters
// Started and cleared when it leaves it.
const (
	EventStatusPending   = "Pending"
	EventStatusStarted   = "Started"
	EventStatusEnded     = "Ended"
	EventStatusCancelled = "Cancelled"
)

const (
	EventTypePreplay = "preplay"
	EventTypeInplay  = "inplay"
)

const (
	OutcomeUnsettled = "Unsettled"
	OutcomeVoid      = "Void"
	OutcomeLose      = "Lose"
	OutcomeWin       = "Win"
)

// Sport is the root of the catalog hierarchy. Active is derived from the
// events underneath it and is never set by clients.
type Sport struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	URLIdentifier string     `json:"url_identifier"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Event is a match within a sport. Active is derived from its selections.
type Event struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	URLIdentifier  string     `json:"url_identifier"`
	Active         bool       `json:"active"`
	Type           string     `json:"type"`
	SportID        string     `json:"sport_id"`
	Status         string     `json:"status"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	ActualStart    *time.Time `json:"actual_start,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// Selection is a bettable outcome of an event. Active is the only
// client-settable flag in the hierarchy; the parents derive theirs from it.
type Selection struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	EventID   string           `json:"event_id"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Active    bool             `json:"active"`
	Outcome   string           `json:"outcome,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
}

// Validation schemas, one per entity.

var SportSchema = validation.Schema{
	"name":           {Type: validation.TypeString, Required: true, MinLength: 1, MaxLength: 255},
	"url_identifier": {Type: validation.TypeString, Required: true, MinLength: 1, MaxLength: 255},
}

var EventSchema = validation.Schema{
	"name":            {Type: validation.TypeString, Required: true, MinLength: 1, MaxLength: 255},
	"url_identifier":  {Type: validation.TypeString, Required: true, MinLength: 1, MaxLength: 255},
	"type":            {Type: validation.TypeEnum, Required: true, Options: []string{EventTypePreplay, EventTypeInplay}},
	"sport_id":        {Type: validation.TypeString, Required: true, MinLength: 1, MaxLength: 50},
	"status":          {Type: validation.TypeEnum, Required: true, Options: []string{EventStatusPending, EventStatusStarted, EventStatusEnded, EventStatusCancelled}},
	"scheduled_start": {Type: validation.TypeDatetime, Required: true},
}

var SelectionSchema = validation.Schema{
	"name":     {Type: validation.TypeString, Required: true, MinLength: 1, MaxLength: 255},
	"event_id": {Type: validation.TypeString, Required: true, MinLength: 1, MaxLength: 50},
	"price":    {Type: validation.TypeFloat, Required: false, MinValue: 0, MaxValue: 50000},
	"active":   {Type: validation.TypeBoolean, Required: true},
	"outcome":  {Type: validation.TypeEnum, Required: true, Options: []string{OutcomeUnsettled, OutcomeVoid, OutcomeLose, OutcomeWin}},
}

// Column sets. Creates validate the raw input and report restricted fields
// (system-assigned ids, derived flags, timestamps) as errors; updates are
// projected onto the allowed columns first, so restricted fields are
// dropped silently there. That asymmetry is long-standing API behavior.

var (
	SportUpdateColumns     = []string{"name", "url_identifier"}
	EventUpdateColumns     = []string{"name", "url_identifier", "type", "status", "scheduled_start"}
	SelectionUpdateColumns = []string{"name", "price", "active", "outcome"}
)

var (
	SportRestrictedColumns        = []string{"id", "active", "created_at", "updated_at"}
	EventRestrictedCreateColumns  = []string{"id", "active", "actual_start", "created_at", "updated_at"}
	EventRestrictedUpdateColumns  = []string{"id", "active", "sport_id", "actual_start", "created_at", "updated_at"}
	SelectionRestrictedCreateCols = []string{"id", "created_at", "updated_at"}
	SelectionRestrictedUpdateCols = []string{"id", "event_id", "created_at", "updated_at"}
)

// ProjectColumns returns the subset of data limited to the allowed columns.
func ProjectColumns(data map[string]any, allowed []string) map[string]any {
	projected := make(map[string]any, len(allowed))
	for _, column := range allowed {
		if value, ok := data[column]; ok {
			projected[column] = value
		}
	}
	return projected
}
