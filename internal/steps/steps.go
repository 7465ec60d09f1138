// Package steps implements the step-selection policy: given the ordered
// list of steps recorded for a run, which subset is sampled. The same
// Select call is applied to step names and to the control-variable series
// so the two always have matching cardinality.
package steps

import (
	"errors"
	"fmt"
)

// Policy selects which recorded steps of a run to sample.
type Policy string

const (
	// Last samples only the final step.
	Last Policy = "last"
	// First samples only the first step.
	First Policy = "first"
	// All samples every step in run order.
	All Policy = "all"
	// AllButFirst samples every step except the first; it requires at
	// least two recorded steps.
	AllButFirst Policy = "all_but_first"
)

var (
	// ErrInvalidPolicy reports an unrecognized policy tag or a selection
	// attempted against an empty step list.
	ErrInvalidPolicy = errors.New("invalid step-selection policy")

	// ErrInsufficientSteps reports a run with too few steps for the policy.
	ErrInsufficientSteps = errors.New("insufficient steps")
)

// ParsePolicy resolves a policy tag from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case Last, First, All, AllButFirst:
		return Policy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

// Select returns the subset of items the policy samples, preserving run
// order. Selecting from an empty list fails with ErrInvalidPolicy.
func Select[T any](items []T, p Policy) ([]T, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: nothing to select from", ErrInvalidPolicy)
	}
	switch p {
	case Last:
		return items[len(items)-1:], nil
	case First:
		return items[:1], nil
	case All:
		return items, nil
	case AllButFirst:
		if len(items) < 2 {
			return nil, fmt.Errorf("%w: %q needs at least 2 steps, have %d", ErrInsufficientSteps, p, len(items))
		}
		return items[1:], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, p)
}
