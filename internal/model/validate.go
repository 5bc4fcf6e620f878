package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateGate checks a Gate for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the gate is valid.
func ValidateGate(g *Gate) error {
	var ve ValidationError

	if strings.TrimSpace(g.ID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "id", Message: "is required"})
	}

	if strings.TrimSpace(g.Name) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	}

	if strings.TrimSpace(g.SourceURL) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "url", Message: "is required"})
	}

	if !g.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", g.Status),
		})
	}

	if g.Level < 1 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "level",
			Message: fmt.Sprintf("must be at least 1, got %d", g.Level),
		})
	}

	if g.RequestsToday < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "requestsToday",
			Message: fmt.Sprintf("must be non-negative, got %d", g.RequestsToday),
		})
	}

	if g.TotalRequests < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "totalRequests",
			Message: fmt.Sprintf("must be non-negative, got %d", g.TotalRequests),
		})
	}

	// Each known window must carry exactly one point per day when present.
	for w, points := range g.ActivitySeries {
		if !w.IsValid() {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "activityData",
				Message: fmt.Sprintf("unknown window %q", w),
			})
			continue
		}
		if len(points) != w.Days() {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "activityData",
				Message: fmt.Sprintf("window %q has %d points, want %d", w, len(points), w.Days()),
			})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
