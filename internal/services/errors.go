package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalService marks failures from the analysis or learning service.
	ErrExternalService = errors.New("external service error")
	// ErrPersistence marks workflow state store read/write failures.
	ErrPersistence = errors.New("persistence error")
	// ErrValidation marks caller input that cannot be processed.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks missing or inconsistent configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks lookups for state or entities that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks failures expected to clear on retry.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether an error represents a failure the caller may
// retry without changing inputs. External-service and persistence failures
// are retryable unless explicitly marked otherwise; validation,
// configuration, and not-found failures are not.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return false
	case errors.Is(err, ErrExternalService), errors.Is(err, ErrPersistence), errors.Is(err, ErrTransient):
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
