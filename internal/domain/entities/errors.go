package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by every layer.
//
//   - ErrValidation: malformed input, caller fixes it and retries.
//   - ErrStageViolation: operation attempted outside its legal stage set.
//   - ErrConcurrentModification: optimistic concurrency conflict or failed read-back.
//   - ErrReconciliationInvariant: internal assertion failure; never persisted.
//   - ErrPersistence: storage failure, propagated as-is.
var (
	ErrValidation              = errors.New("validation error")
	ErrStageViolation          = errors.New("stage violation")
	ErrConcurrentModification  = errors.New("concurrent modification")
	ErrReconciliationInvariant = errors.New("reconciliation invariant violation")
	ErrPersistence             = errors.New("persistence error")
	ErrNotFound                = errors.New("not found")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StageViolationError reports the current stage and the stages the operation needs.
type StageViolationError struct {
	Operation string
	Current   Stage
	Required  []Stage
}

func (e *StageViolationError) Error() string {
	required := make([]string, 0, len(e.Required))
	for _, s := range e.Required {
		required = append(required, string(s))
	}
	return fmt.Sprintf("%s: %s not allowed in stage %s (requires %s)",
		ErrStageViolation, e.Operation, e.Current, strings.Join(required, "|"))
}

func (e *StageViolationError) Is(target error) bool {
	return target == ErrStageViolation
}

// InvariantError describes which reconciliation rule broke.
type InvariantError struct {
	Rule   string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrReconciliationInvariant, e.Rule, e.Detail)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrReconciliationInvariant
}
