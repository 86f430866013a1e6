package merkletree

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel error kinds. Every error the package returns wraps exactly one of
// these with errors.Is-compatible chaining, so callers can distinguish a
// malformed-input failure (ErrInvalidArgument) from a self-check failure that
// indicates tampering or a library bug (ErrInvariant).
var (
	// ErrInvalidArgument marks errors caused by a caller supplying something
	// malformed: an empty leaf set, a non-32-byte node, a non-leaf index, a
	// duplicated multiproof index, a bad dump, a leaf absent from the tree.
	ErrInvalidArgument = errors.New("merkletree: invalid argument")

	// ErrInvariant marks errors the package asserts about its own state: a
	// loaded tree that fails structural validation, a proof that fails its
	// own defense-in-depth re-verification, a multiproof that becomes
	// structurally inconsistent after its shape checks already passed.
	ErrInvariant = errors.New("merkletree: invariant violation")
)

// invalidArgument wraps msg as an ErrInvalidArgument.
func invalidArgument(msg string) error {
	return pkgerrors.WithMessage(ErrInvalidArgument, msg)
}

// invalidArgumentf wraps a formatted message as an ErrInvalidArgument.
func invalidArgumentf(format string, args ...interface{}) error {
	return pkgerrors.WithMessage(ErrInvalidArgument, pkgerrors.Errorf(format, args...).Error())
}

// invariant wraps msg as an ErrInvariant.
func invariant(msg string) error {
	return pkgerrors.WithMessage(ErrInvariant, msg)
}

// invariantf wraps a formatted message as an ErrInvariant.
func invariantf(format string, args ...interface{}) error {
	return pkgerrors.WithMessage(ErrInvariant, pkgerrors.Errorf(format, args...).Error())
}
