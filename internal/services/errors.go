package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks bad configuration or mismatched frame dimensions.
	ErrValidation = errors.New("validation error")
	// ErrAborted marks cooperative cancellation observed at a checkpoint.
	ErrAborted = errors.New("aborted")
	// ErrDecode marks audio input that could not be decoded.
	ErrDecode = errors.New("decode error")
	// ErrCapture marks a render surface readback failure.
	ErrCapture = errors.New("capture error")
	// ErrCache marks a non-fatal analysis cache failure.
	ErrCache = errors.New("cache error")
)

// Wrap builds an error message that includes pipeline context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrCapture
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Category describes how the orchestrator should treat a stage failure.
type Category string

const (
	CategoryFailed    Category = "failed"
	CategoryCancelled Category = "cancelled"
	CategoryInvalid   Category = "invalid"
)

// Classify maps a stage error to the failure category the orchestrator
// records in its structured result.
func Classify(err error) Category {
	switch {
	case IsAborted(err):
		return CategoryCancelled
	case errors.Is(err, ErrValidation):
		return CategoryInvalid
	default:
		return CategoryFailed
	}
}

// IsAborted reports whether err represents cooperative cancellation, either
// via the pipeline sentinel or the context errors it shadows.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Abort wraps a context error as an ErrAborted for the given checkpoint.
func Abort(component, operation string, err error) error {
	return Wrap(ErrAborted, component, operation, "cancelled", err)
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
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
