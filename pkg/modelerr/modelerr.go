// Package modelerr defines the error kinds shared by the logic-model packages.
//
// Packages wrap these sentinels with their own context, for example
//
//	fmt.Errorf("logicmodel: add port %d: %w", id, modelerr.ErrInvalidReference)
//
// and callers classify failures with errors.Is. Operations that fail leave
// the object graph in its pre-call state.
package modelerr

import "errors"

var (
	// ErrInvalidReference reports a nil or otherwise unusable required entity,
	// including entities that carry no valid object ID.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrLookupFailure reports an ID that is not present in a registry.
	ErrLookupFailure = errors.New("lookup failure")

	// ErrDuplicateIdentity reports an ID that already exists where it must be unique.
	ErrDuplicateIdentity = errors.New("duplicate identity")

	// ErrMissingAttribute reports a required field absent from external data.
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrPreconditionViolation reports an entity whose state does not support
	// the requested operation, e.g. a gate with undefined orientation.
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrStructuralInvariant reports an inconsistent graph, surfaced while cloning.
	ErrStructuralInvariant = errors.New("structural invariant violated")
)

// Kind returns the sentinel err wraps, or nil if it wraps none of them.
func Kind(err error) error {
	for _, kind := range []error{
		ErrInvalidReference,
		ErrLookupFailure,
		ErrDuplicateIdentity,
		ErrMissingAttribute,
		ErrPreconditionViolation,
		ErrStructuralInvariant,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
