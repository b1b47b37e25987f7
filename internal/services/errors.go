package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingInput     = errors.New("missing input")
	ErrUnresolvedBinary = errors.New("unresolved binary")
	ErrNonUniqueLookup  = errors.New("non-unique or missing region")
	ErrEmptyReport      = errors.New("empty report")
	ErrExternalTool     = errors.New("external tool error")
	ErrTimeout          = errors.New("timeout")
	ErrValidation       = errors.New("validation error")
	ErrConfiguration    = errors.New("configuration error")
	ErrBusy             = errors.New("working directory busy")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short, stable identifier for the error's marker. It is stored
// alongside failed runs so history queries can group by failure type.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingInput):
		return "missing_input"
	case errors.Is(err, ErrNonUniqueLookup):
		return "non_unique_lookup"
	case errors.Is(err, ErrEmptyReport):
		return "empty_report"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnresolvedBinary):
		return "unresolved_binary"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrExternalTool):
		return "external_tool"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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
