package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// Standardized error codes surfaced in the error envelope.
const (
	CodeSportNotFound           = "SPORT_NOT_FOUND"
	CodeEventNotFound           = "EVENT_NOT_FOUND"
	CodeSelectionNotFound       = "SELECTION_NOT_FOUND"
	CodeSportCreationFailed     = "SPORT_CREATION_FAILED"
	CodeEventCreationFailed     = "EVENT_CREATION_FAILED"
	CodeSelectionCreationFailed = "SELECTION_CREATION_FAILED"
	CodeTagError                = "TAG_ERROR"
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeExternalAPIError        = "EXTERNAL_API_ERROR"
	CodeUnknownEndpoint         = "UNKNOWN_ENDPOINT"
	CodeMethodNotAllowed        = "METHOD_NOT_ALLOWED"
	CodeInternalServerError     = "INTERNAL_SERVER_ERROR"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Response is the success envelope for every endpoint.
type Response struct {
	Data     any `json:"data"`
	MetaData any `json:"meta_data,omitempty"`
}

// ErrorResponse is the error envelope. Error is either a message string or
// a field->message map from validation.
type ErrorResponse struct {
	Error any    `json:"error"`
	Code  string `json:"code"`
}

// ListMeta is the pagination metadata block. CountKey picks the entity
// specific name of the count field (sport_count, event_count, ...).
type ListMeta struct {
	Count      int64
	CountKey   string
	PageNumber int
	PageOffset int
}

func (m ListMeta) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		m.CountKey:    m.Count,
		"page_number": m.PageNumber,
		"page_offset": m.PageOffset,
	})
}

// WriteSuccess writes the success envelope with the given status.
func WriteSuccess(w http.ResponseWriter, status int, data any, meta any) {
	writeJSON(w, status, Response{Data: data, MetaData: meta})
}

// WriteError writes the error envelope with the given status.
func WriteError(w http.ResponseWriter, status int, message any, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Nothing sensible to do if encoding fails after the header is written.
	_ = json.NewEncoder(w).Encode(payload)
}
