package booking

import (
	"errors"
	"fmt"
	"strings"

	"barberbook/internal/handoff"
	"barberbook/internal/storeapi"
)

var (
	ErrSlotUnavailable  = errors.New("slot is not available")
	ErrDayClosed        = errors.New("day is closed")
	ErrOutsideMonth     = errors.New("date is outside the displayed month")
	ErrNothingSelected  = errors.New("no slot selected")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrSessionNotFound  = errors.New("session not found")
)

// FieldError names one invalid booking field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError blocks a submission before any network call.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "invalid booking: " + strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// SubmitTransportError means neither transport reached the store. Handoff
// still works, so it carries a ready link.
type SubmitTransportError struct {
	Primary  error
	Fallback error
	Handoff  handoff.Link
}

func (e *SubmitTransportError) Error() string {
	return fmt.Sprintf("submit booking: primary: %v; fallback: %v", e.Primary, e.Fallback)
}

func (e *SubmitTransportError) Unwrap() error { return e.Fallback }

// Connectivity reports whether the failure looks like the store being
// unreachable rather than some other client-side problem.
func (e *SubmitTransportError) Connectivity() bool {
	return storeapi.IsConnectivity(e.Fallback)
}

// SubmitStatusError means the fallback reached the store and it refused.
type SubmitStatusError struct {
	StatusCode int
	Status     string
}

func (e *SubmitStatusError) Error() string {
	if e.Status != "" {
		return "submit booking: http " + e.Status
	}
	return fmt.Sprintf("submit booking: http %d", e.StatusCode)
}
