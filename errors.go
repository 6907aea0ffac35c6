package psdcomp

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	// ErrAllocation is matched by every *AllocationError.
	ErrAllocation = errors.New("psdcomp: surface allocation failed")

	// ErrEncoding is matched by every *EncodingError.
	ErrEncoding = errors.New("psdcomp: encoding failed")

	// ErrInvalidColor is returned when a background color string cannot be parsed.
	ErrInvalidColor = errors.New("psdcomp: invalid color")

	// ErrNilDocument is returned when CompositePSD is called without a document.
	ErrNilDocument = errors.New("psdcomp: nil document")

	// ErrNilLayer is returned when CompositeSingleLayer is called without a layer.
	ErrNilLayer = errors.New("psdcomp: nil layer")
)

// AllocationError reports that a surface of the requested size could not be
// created, typically because a dimension is zero or negative.
type AllocationError struct {
	Width, Height int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("psdcomp: cannot allocate %dx%d surface", e.Width, e.Height)
}

// Is reports whether target is ErrAllocation.
func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocation
}

// EncodingError reports a failure to encode a surface. Err holds the
// underlying encoder error.
type EncodingError struct {
	Format Format
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("psdcomp: encode %s: %v", e.Format, e.Err)
}

// Unwrap returns the underlying encoder error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrEncoding.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}
