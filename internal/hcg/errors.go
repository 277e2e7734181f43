package hcg

import (
	"fmt"
	"time"

	"github.com/c-daly/logos-sub004/internal/types"
)

// HCG error codes
const (
	// Type registry errors
	ErrCodeUnknownType          types.ErrorCode = "HCG_UNKNOWN_TYPE"
	ErrCodeCyclicType           types.ErrorCode = "HCG_CYCLIC_TYPE"
	ErrCodeTypeExists           types.ErrorCode = "HCG_TYPE_EXISTS"
	ErrCodeTypeResolutionFailed types.ErrorCode = "HCG_TYPE_RESOLUTION_FAILED"

	// Write-time integrity errors
	ErrCodeDanglingReference types.ErrorCode = "HCG_DANGLING_REFERENCE"
	ErrCodeDuplicateUUID     types.ErrorCode = "HCG_DUPLICATE_UUID"
	ErrCodeInvalidProperty   types.ErrorCode = "HCG_INVALID_PROPERTY"

	// Lookup and traversal errors
	ErrCodeNotFound               types.ErrorCode = "HCG_NOT_FOUND"
	ErrCodeInvalidRange           types.ErrorCode = "HCG_INVALID_RANGE"
	ErrCodeTraversalLimitExceeded types.ErrorCode = "HCG_TRAVERSAL_LIMIT_EXCEEDED"
)

// NewUnknownTypeError creates an error for a write referencing an unknown type.
// Never retried: retrying would not change the outcome.
func NewUnknownTypeError(typeName string) *types.LogosError {
	return types.NewError(ErrCodeUnknownType,
		fmt.Sprintf("unknown type: %s", typeName))
}

// NewCyclicTypeError creates an error for a type registration that would
// introduce a cycle in the IS_A hierarchy.
func NewCyclicTypeError(typeName, parentType string) *types.LogosError {
	return types.NewError(ErrCodeCyclicType,
		fmt.Sprintf("registering type %q under %q would create an IS_A cycle", typeName, parentType))
}

// NewTypeExistsError creates an error for re-registering an existing type name.
func NewTypeExistsError(typeName string) *types.LogosError {
	return types.NewError(ErrCodeTypeExists,
		fmt.Sprintf("type already registered: %s", typeName))
}

// NewTypeResolutionError creates an error for an IS_A chain walk that failed
// to produce a root type.
func NewTypeResolutionError(typeName, reason string) *types.LogosError {
	return types.NewError(ErrCodeTypeResolutionFailed,
		fmt.Sprintf("cannot resolve root type of %q: %s", typeName, reason))
}

// NewDanglingReferenceError creates an error for an edge write whose endpoint
// does not exist.
func NewDanglingReferenceError(uuid types.ID) *types.LogosError {
	return types.NewError(ErrCodeDanglingReference,
		fmt.Sprintf("edge endpoint does not exist: %s", uuid))
}

// NewDuplicateUUIDError creates an error for a uuid collision on node creation.
func NewDuplicateUUIDError(uuid types.ID) *types.LogosError {
	return types.NewError(ErrCodeDuplicateUUID,
		fmt.Sprintf("node with uuid %s already exists", uuid))
}

// NewInvalidPropertyError creates an error for a property value outside the
// allowed kinds.
func NewInvalidPropertyError(key, kind string) *types.LogosError {
	return types.NewError(ErrCodeInvalidProperty,
		fmt.Sprintf("property %q has unsupported value kind %s", key, kind))
}

// NewNotFoundError creates an error for a requested uuid that does not exist.
func NewNotFoundError(uuid types.ID) *types.LogosError {
	return types.NewError(ErrCodeNotFound,
		fmt.Sprintf("node not found: %s", uuid))
}

// NewInvalidRangeError creates an error for an inverted time range.
func NewInvalidRangeError(start, end time.Time) *types.LogosError {
	return types.NewError(ErrCodeInvalidRange,
		fmt.Sprintf("invalid time range: start %s is after end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339)))
}

// NewTraversalLimitError creates an error for a traversal that exceeded the
// internal visited-node safety bound.
func NewTraversalLimitError(limit int) *types.LogosError {
	return types.NewError(ErrCodeTraversalLimitExceeded,
		fmt.Sprintf("traversal exceeded safety bound of %d visited nodes", limit))
}
