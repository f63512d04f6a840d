// Package apperrors holds the domain error vocabulary shared by usecases and
// handlers.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound: the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock: the requested removal exceeds what is on hand,
	// including removals against a stock row that was never created.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNegativeQuantity: the computed resulting quantity would be negative.
	ErrNegativeQuantity = errors.New("negative quantity")
	// ErrConflict: a uniqueness constraint (username, email) would be violated.
	ErrConflict = errors.New("conflict")
)

// LineError attributes a validation message to one input field, optionally to
// one line of a multi-line submission (Index is -1 for non-line errors).
type LineError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the complete list of problems found in one request
// so the caller can fix everything in a single round trip.
type ValidationError struct {
	Lines []LineError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		msgs[i] = fmt.Sprintf("[%d] %s: %s", l.Index, l.Field, l.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
