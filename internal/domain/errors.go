package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrFeedClosed    = errors.New("price feed closed")
	ErrContextDone   = errors.New("context cancelled")
)

// Constraint identifies which recipe invariant a ValidationError reports.
type Constraint string

const (
	ConstraintInputCount    Constraint = "input_count"
	ConstraintMixedTier     Constraint = "mixed_tier"
	ConstraintMixedStatTrak Constraint = "mixed_stattrak"
	ConstraintCeilingTier   Constraint = "ceiling_tier"
	ConstraintUnknownEntry  Constraint = "unknown_entry"
)

// ValidationError reports a malformed or inconsistent recipe input. It is
// surfaced to the caller synchronously and never retried internally. Detail
// carries the counts the caller needs to render an actionable message.
type ValidationError struct {
	Constraint Constraint
	EntryID    string
	Detail     map[string]int
}

func (e *ValidationError) Error() string {
	switch e.Constraint {
	case ConstraintInputCount:
		return fmt.Sprintf("recipe requires %d items, got %d", e.Detail["required"], e.Detail["actual"])
	case ConstraintMixedTier:
		return fmt.Sprintf("recipe mixes quality tiers %d and %d", e.Detail["tier"], e.Detail["other"])
	case ConstraintMixedStatTrak:
		return "recipe mixes StatTrak and non-StatTrak items"
	case ConstraintCeilingTier:
		return fmt.Sprintf("recipe tier %d has no higher tier (max %d)", e.Detail["tier"], e.Detail["max_tier"])
	case ConstraintUnknownEntry:
		return fmt.Sprintf("unknown catalog entry %q", e.EntryID)
	default:
		return "invalid recipe"
	}
}

// NoOutcomesError reports a structurally valid recipe whose collections have
// no reachable next-tier entries. This is a catalog data gap, not a user
// input problem, and is reported distinctly from ValidationError.
type NoOutcomesError struct {
	Tier        int
	Collections []string
}

func (e *NoOutcomesError) Error() string {
	return fmt.Sprintf("no tier-%d outcomes reachable from collections [%s]",
		e.Tier+1, strings.Join(e.Collections, ", "))
}

// InsufficientInventoryError reports an allocator precondition failure with
// required vs. actual counts for the failing pool.
type InsufficientInventoryError struct {
	Pool     string // "primary" or "filler"
	Required int
	Actual   int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("%s pool needs %d items, have %d (short %d)",
		e.Pool, e.Required, e.Actual, e.Required-e.Actual)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNoOutcomes reports whether err is (or wraps) a NoOutcomesError.
func IsNoOutcomes(err error) bool {
	var ne *NoOutcomesError
	return errors.As(err, &ne)
}
