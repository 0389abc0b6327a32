// Package migerr defines the fatal/non-fatal error taxonomy from spec §7,
// following the teacher's sentinel-error-plus-constructor shape
// (api/tools/errors.go: CodeXxx constants, ErrXxx sentinels, XxxErr(...)
// wrapper functions) rather than ad hoc fmt.Errorf calls scattered through
// the pipeline.
package migerr

import (
	"errors"
	"fmt"
)

// Stable error codes, for callers that want to switch on the failure
// class without string-matching Error().
const (
	CodeUnsupportedType        = "UNSUPPORTED_TYPE"
	CodeConflictingTypes       = "CONFLICTING_TYPES"
	CodeConflictingReferences  = "CONFLICTING_REFERENCES"
	CodeRenameResolutionFailed = "RENAME_RESOLUTION_FAILED"
	CodeSnapshotDecodeError    = "SNAPSHOT_DECODE_ERROR"
	CodeNoChanges              = "NO_CHANGES"
)

// Sentinel errors, one per taxonomy member in spec §7. ErrNoChanges is the
// only non-fatal member: callers check it with errors.Is to print the
// informational message and exit 0 instead of treating it as a failure.
var (
	ErrUnsupportedType        = errors.New("no migration_type set up for source type")
	ErrConflictingTypes       = errors.New("merged attribute has more than one distinct type")
	ErrConflictingReferences  = errors.New("merged attribute has more than one distinct non-null reference")
	ErrRenameResolutionFailed = errors.New("rename resolution did not converge")
	ErrSnapshotDecodeError    = errors.New("stored snapshot violates the strict key policy")
	ErrNoChanges              = errors.New("no schema changes detected")
)

// UnsupportedTypeErr reports an attribute whose source type has no entry
// in the closed migration-type table.
func UnsupportedTypeErr(sourceType string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedType, sourceType)
}

// ConflictingTypesErr reports a table/attribute pair whose contributing
// declarations disagree on type.
func ConflictingTypesErr(table, attribute string) error {
	return fmt.Errorf("%w: %s.%s", ErrConflictingTypes, table, attribute)
}

// ConflictingReferencesErr reports a table/attribute pair whose
// contributing declarations disagree on which table/column they reference.
func ConflictingReferencesErr(table, attribute string) error {
	return fmt.Errorf("%w: %s.%s", ErrConflictingReferences, table, attribute)
}

// RenameResolutionFailedErr reports that the interactive rename resolver
// did not converge within the allotted tries.
func RenameResolutionFailedErr(attribute string, tries int) error {
	return fmt.Errorf("%w: %s after %d tries", ErrRenameResolutionFailed, attribute, tries)
}

// SnapshotDecodeErr reports a snapshot file that failed to decode under
// the strict-symbol key policy.
func SnapshotDecodeErr(path string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrSnapshotDecodeError, path, cause)
}
