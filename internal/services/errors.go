package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the subsystem's error taxonomy. Wrap tags an error
// with one of these so callers classify failures with errors.Is.
var (
	// ErrEmptyDataset marks an export attempted against a store holding
	// neither profiles nor assets. A usage error, not an empty artifact.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrExportValidation marks wire-shape violations found while exporting.
	ErrExportValidation = errors.New("export validation failed")
	// ErrSerialization marks a parse-back failure of serialized output. This
	// class indicates an internal bug, never a user error.
	ErrSerialization = errors.New("serialization failed")
	// ErrParse marks import text that is not valid JSON.
	ErrParse = errors.New("parse failed")
	// ErrInvalidConfiguration marks wire-shape violations found while importing.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrImportValidation marks business-rule violations in imported data.
	ErrImportValidation = errors.New("import validation failed")
	// ErrMerge marks an unexpected failure during reconciliation or persistence.
	ErrMerge = errors.New("merge failed")
	// ErrNotAuthenticated marks a backup attempted without remote credentials.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuthentication marks a failed credential check against the remote.
	ErrAuthentication = errors.New("authentication failed")
	// ErrUpload marks a failed backup upload.
	ErrUpload = errors.New("upload failed")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrMerge
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsUserError reports whether the error stems from user input rather than an
// internal bug or remote failure. CLI surfaces use this to suppress stack
// noise for expected failure modes.
func IsUserError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrParse) ||
		errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrImportValidation)
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
