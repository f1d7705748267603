package core

import "fmt"

// NotFoundError represents a resource that could not be found.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// InvalidStateError signals an operation attempted against a resource
// in the wrong lifecycle status (e.g. advancing a finished game).
type InvalidStateError struct {
	Resource string
	Current  string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s is %s, cannot %s", e.Resource, e.Current, e.Attempted)
}

// NewInvalidStateError creates a new InvalidStateError.
func NewInvalidStateError(resource, current, attempted string) error {
	return &InvalidStateError{Resource: resource, Current: current, Attempted: attempted}
}

// IsInvalidState checks if an error is an InvalidStateError.
func IsInvalidState(err error) bool {
	_, ok := err.(*InvalidStateError)
	return ok
}

// SeedMismatchError is a fatal integrity signal: a revealed server seed
// does not hash to the previously committed serverSeedHash.
type SeedMismatchError struct {
	GameID string
}

func (e *SeedMismatchError) Error() string {
	return fmt.Sprintf("server seed does not match committed hash for game %s", e.GameID)
}

// NewSeedMismatchError creates a new SeedMismatchError.
func NewSeedMismatchError(gameID string) error {
	return &SeedMismatchError{GameID: gameID}
}

// IsSeedMismatch checks if an error is a SeedMismatchError.
func IsSeedMismatch(err error) bool {
	_, ok := err.(*SeedMismatchError)
	return ok
}

// TransportClosedError indicates an SSE peer disconnected, or the
// controller driving the stream was already closed. Recovered locally;
// never surfaced as a failure to the caller.
type TransportClosedError struct {
	Reason string
}

func (e *TransportClosedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("transport closed: %s", e.Reason)
	}
	return "transport closed"
}

// NewTransportClosedError creates a new TransportClosedError.
func NewTransportClosedError(reason string) error {
	return &TransportClosedError{Reason: reason}
}

// IsTransportClosed checks if an error is a TransportClosedError.
func IsTransportClosed(err error) bool {
	_, ok := err.(*TransportClosedError)
	return ok
}

// PersistenceFailureError wraps a store rejection; failed actions must
// leave state untouched (atomic transaction discipline).
type PersistenceFailureError struct {
	Op  string
	Err error
}

func (e *PersistenceFailureError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceFailureError) Unwrap() error {
	return e.Err
}

// NewPersistenceFailureError creates a new PersistenceFailureError.
func NewPersistenceFailureError(op string, err error) error {
	return &PersistenceFailureError{Op: op, Err: err}
}

// IsPersistenceFailure checks if an error is a PersistenceFailureError.
func IsPersistenceFailure(err error) bool {
	_, ok := err.(*PersistenceFailureError)
	return ok
}

// TimeoutError indicates a tick action exceeded its time budget.
// Treated the same as PersistenceFailureError by callers.
type TimeoutError struct {
	Op      string
	BudgetS int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s exceeded %ds budget", e.Op, e.BudgetS)
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(op string, budgetSeconds int) error {
	return &TimeoutError{Op: op, BudgetS: budgetSeconds}
}

// IsTimeout checks if an error is a TimeoutError.
func IsTimeout(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}
