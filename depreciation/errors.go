/*
errors.go - Centralized error types for the depreciation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers wrap these errors with additional context; the engine never
  retries and never returns partial results - a failed calculation
  produces no schedule period and leaves prior state untouched.

ERROR CATEGORIES:
  1. Validation errors - bad inputs, raised before any calculation
  2. Tier/capability errors - method unavailable at caller's tier
  3. Not-found errors - unknown asset, schedule, or period
  4. Domain-invariant errors - currency mismatch, illegal transitions

USAGE:
  if errors.Is(err, depreciation.ErrTierNotAvailable) {
      // surface an upgrade prompt instead of a 500
  }
*/
package depreciation

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAssetNotFound is returned by providers for an unknown asset id.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrScheduleNotFound is returned when no schedule exists for an asset/book.
	ErrScheduleNotFound = errors.New("depreciation schedule not found")

	// ErrPeriodNotFound is returned for an unknown accounting period id.
	ErrPeriodNotFound = errors.New("accounting period not found")

	// ErrMethodNotSupported is returned for an unknown method type.
	ErrMethodNotSupported = errors.New("depreciation method not supported")

	// ErrTierNotAvailable is returned when the requested method's tier
	// exceeds the caller's configured tier.
	ErrTierNotAvailable = errors.New("method not available at current tier")

	// ErrCurrencyMismatch is returned by value-object arithmetic on
	// amounts with different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	ErrInvalidCost        = errors.New("cost must be positive")
	ErrInvalidSalvage     = errors.New("salvage value must not be negative")
	ErrSalvageExceedsCost = errors.New("salvage value exceeds cost")
	ErrInvalidLife        = errors.New("useful life must be positive")

	// ErrMissingUnitsData is returned when units-of-production lacks
	// total expected units or units produced.
	ErrMissingUnitsData = errors.New("units data required for units-of-production")

	// ErrMissingInterestRate is returned when annuity lacks a rate.
	ErrMissingInterestRate = errors.New("interest rate required for annuity method")

	// ErrInvalidBonusRate is returned for a bonus rate outside [0, 1].
	ErrInvalidBonusRate = errors.New("bonus rate must be between 0 and 1")

	// ErrMissingPropertyClass is returned when MACRS lacks a recognized
	// property class.
	ErrMissingPropertyClass = errors.New("recognized property class required for MACRS")

	// ErrInvalidAdjustment is returned for a cutover before period 1 or
	// a new life shorter than the already-replayed history.
	ErrInvalidAdjustment = errors.New("invalid schedule adjustment")

	// ErrRunRequired is returned when posting a period without a run id.
	ErrRunRequired = errors.New("posting requires a depreciation run id")

	// ErrInvalidTransition is returned for illegal period status moves
	// (e.g. reversing a period that was never posted).
	ErrInvalidTransition = errors.New("invalid schedule period status transition")

	// ErrAssetDisposed is returned when calculating for a disposed asset.
	ErrAssetDisposed = errors.New("asset is disposed")
)

// =============================================================================
// ERROR CODES - Stable identifiers for API consumers
// =============================================================================

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeTierNotAvailable = "TIER_NOT_AVAILABLE"
	CodeNotSupported     = "METHOD_NOT_SUPPORTED"
	CodeNotFound         = "NOT_FOUND"
	CodeCurrencyMismatch = "CURRENCY_MISMATCH"
	CodeInvalidState     = "INVALID_STATE"
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TierError reports which tier would be required for the method.
type TierError struct {
	Method   MethodType
	Required Tier
	Current  Tier
}

func (e *TierError) Error() string {
	return fmt.Sprintf("method %s requires tier %d, current tier is %d", e.Method, e.Required, e.Current)
}

func (e *TierError) Unwrap() error { return ErrTierNotAvailable }

// CurrencyMismatchError reports the two currencies involved.
type CurrencyMismatchError struct {
	Left  string
	Right string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s vs %s", e.Left, e.Right)
}

func (e *CurrencyMismatchError) Unwrap() error { return ErrCurrencyMismatch }

// ValidationError aggregates the per-field failures found before a
// calculation is allowed to proceed.
type ValidationError struct {
	Method MethodType
	Errors []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Method, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error { return e.Errors }

// TransitionError reports an illegal schedule period status move.
type TransitionError struct {
	From PeriodStatus
	To   PeriodStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition schedule period from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrScheduleNotFound) ||
		errors.Is(err, ErrPeriodNotFound)
}

// IsClientError returns true if the error is due to invalid caller input
// rather than an engine fault.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrTierNotAvailable) ||
		errors.Is(err, ErrMethodNotSupported) ||
		errors.Is(err, ErrCurrencyMismatch) ||
		errors.Is(err, ErrSalvageExceedsCost) ||
		errors.Is(err, ErrInvalidCost) ||
		errors.Is(err, ErrInvalidLife) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrAssetDisposed)
}

// CodeFor maps an error to its stable API code.
func CodeFor(err error) string {
	switch {
	case IsNotFound(err):
		return CodeNotFound
	case errors.Is(err, ErrTierNotAvailable):
		return CodeTierNotAvailable
	case errors.Is(err, ErrMethodNotSupported):
		return CodeNotSupported
	case errors.Is(err, ErrCurrencyMismatch):
		return CodeCurrencyMismatch
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidState
	default:
		return CodeValidation
	}
}
