package order

import (
	"errors"
	"fmt"

	"orderservice/internal/pkg/errs"
)

// ErrInvalidTransition is the unwrap target for InvalidTransitionError.
// Callers classify transition failures with errors.Is against this value.
var ErrInvalidTransition = errors.New("order status transition is not allowed")

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions:
//
//	Created ───> Processing ───> Completed
//	   │             │
//	   └──> Cancelled <──┘
//
// Completed and Cancelled are terminal: no transition leaves them.
// Self-transitions are never allowed.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status when an order is first created.
	Created

	// Processing indicates the order is being worked on.
	Processing

	// Completed indicates the order finished successfully. Terminal.
	Completed

	// Cancelled indicates the order was abandoned. Terminal.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Created:    "CREATED",
		Processing: "PROCESSING",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation and parsing.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:    "CREATED",
		Processing: "PROCESSING",
		Completed:  "COMPLETED",
		Cancelled:  "CANCELLED",
	}
}

// StatusFromString parses a status from its string name as used in
// persistence and over the wire ("CREATED", "PROCESSING", "COMPLETED",
// "CANCELLED"). Returns an error for any other input.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status name", s))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Created, Processing, Completed, Cancelled.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the name of the status as persisted and serialized.
// Returns "UNKNOWN" for invalid status values. Implements fmt.Stringer
// and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransitionTo reports whether the state machine permits moving from
// the current status to target. It is a pure function of the two statuses:
// no hidden state, no side effects, deterministic on repeated calls.
//
// The transition table is exhaustive:
//   - Created    -> Processing, Cancelled
//   - Processing -> Completed, Cancelled
//   - Completed  -> (none)
//   - Cancelled  -> (none)
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case Created:
		return target == Processing || target == Cancelled
	case Processing:
		return target == Completed || target == Cancelled
	case Completed, Cancelled:
		return false
	case Unknown:
		return false
	default:
		return false
	}
}

// TransitionTo returns the target status if the transition is permitted.
// Otherwise it returns an InvalidTransitionError carrying both the source
// and the target status.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}

	if !s.CanTransitionTo(target) {
		return Unknown, NewInvalidTransitionError(s, target)
	}

	return target, nil
}

// InvalidTransitionError indicates that a requested status transition is
// not permitted from the current state. It carries the attempted source
// and target status for diagnostics.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the
// given source and target statuses.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
