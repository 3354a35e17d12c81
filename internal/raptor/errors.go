package raptor

import (
	"errors"
	"fmt"
	"strings"

	"raptor.onebusaway.org/internal/utils"
)

var (
	// ErrInvalidRequest is matched by every request validation failure. A request
	// failing validation never reaches a worker.
	ErrInvalidRequest = errors.New("invalid routing request")

	// ErrInternal is matched by invariant violations detected during a search, such
	// as a transit leg that cannot be reconstructed. It is never reported as "no result".
	ErrInternal = errors.New("internal routing error")
)

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// ValidationErrors collects every problem found in a request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidRequest
}

// FieldErrors groups the messages by field, the shape the HTTP layer reports.
func (e ValidationErrors) FieldErrors() map[string][]string {
	fieldErrors := make(map[string][]string, len(e))
	for _, err := range e {
		fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
	}
	return fieldErrors
}

// TripNotFoundError is returned when the board and alight times of a transit leg
// cannot be recovered from its trip.
type TripNotFoundError struct {
	Hint       string
	BoundLabel string
	BoundTime  int
	FromStop   int
	ToStop     int
	Pattern    string
}

func (e *TripNotFoundError) Error() string {
	return fmt.Sprintf("trip not found: %s [from stop: %d, to stop: %d, %s: %s, pattern: %s]",
		e.Hint, e.FromStop, e.ToStop, e.BoundLabel, utils.FormatClock(e.BoundTime), e.Pattern)
}

func (e *TripNotFoundError) Is(target error) bool {
	return target == ErrInternal
}
