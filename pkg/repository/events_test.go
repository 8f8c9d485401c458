package repository

import (
	"testing"
	"time"

	"github.com/betcatalog/core/pkg/models"
)

func TestTransitionActualStart(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		currentStatus   string
		update          map[string]any
		wantTransition  bool
		wantActualStart *time.Time
	}{
		{
			name:            "entering Started stamps actual_start",
			currentStatus:   models.EventStatusPending,
			update:          map[string]any{"status": models.EventStatusStarted},
			wantTransition:  true,
			wantActualStart: &now,
		},
		{
			name:            "leaving Started clears actual_start",
			currentStatus:   models.EventStatusStarted,
			update:          map[string]any{"status": models.EventStatusEnded},
			wantTransition:  true,
			wantActualStart: nil,
		},
		{
			name:           "Started to Started is a no-op",
			currentStatus:  models.EventStatusStarted,
			update:         map[string]any{"status": models.EventStatusStarted},
			wantTransition: false,
		},
		{
			name:           "transition between non-Started states is a no-op",
			currentStatus:  models.EventStatusPending,
			update:         map[string]any{"status": models.EventStatusCancelled},
			wantTransition: false,
		},
		{
			name:           "update without status is a no-op",
			currentStatus:  models.EventStatusStarted,
			update:         map[string]any{"name": "new name"},
			wantTransition: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualStart, transitioned := transitionActualStart(tt.currentStatus, tt.update, now)
			if transitioned != tt.wantTransition {
				t.Fatalf("transitioned = %v, want %v", transitioned, tt.wantTransition)
			}
			if tt.wantActualStart == nil {
				if actualStart != nil {
					t.Errorf("actual_start = %v, want nil", actualStart)
				}
				return
			}
			if actualStart == nil || !actualStart.Equal(*tt.wantActualStart) {
				t.Errorf("actual_start = %v, want %v", actualStart, tt.wantActualStart)
			}
		})
	}
}
