package transform

import (
	"fmt"

	"github.com/rgehrsitz/shopmodel/internal/domain"
)

// AssumptionTransform is a composable change to an assumptions record.
// Assumptions are values, so Apply always returns a fresh record and never
// touches its input.
type AssumptionTransform interface {
	// Apply returns base with the transform applied.
	Apply(base domain.Assumptions) (domain.Assumptions, error)

	// Name returns a short identifier (e.g. "set").
	Name() string

	// Description returns a human-readable summary.
	Description() string

	// Validate checks the transform's parameters against base without applying it.
	Validate(base domain.Assumptions) error
}

// ApplyTransforms applies transforms in order, each receiving the output of
// the previous one.
func ApplyTransforms(base domain.Assumptions, transforms []AssumptionTransform) (domain.Assumptions, error) {
	current := base

	for i, transform := range transforms {
		if transform == nil {
			return base, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return base, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return base, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	return current, nil
}

// Describe returns the descriptions of transforms, in order.
func Describe(transforms []AssumptionTransform) []string {
	out := make([]string, 0, len(transforms))
	for _, t := range transforms {
		if t != nil {
			out = append(out, t.Description())
		}
	}
	return out
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
