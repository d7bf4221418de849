package catalog

import (
	"errors"
	"fmt"
)

// ErrMalformedCatalog is matched by every parse failure.
var ErrMalformedCatalog = errors.New("malformed catalog")

// ShapeError reports a line that is neither a section header nor a record.
type ShapeError struct {
	Line int
	Text string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("line %d: unrecognized catalog line %q", e.Line, e.Text)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrMalformedCatalog
}

// OrderingError reports a record line that appears before any section header.
type OrderingError struct {
	Line int
	Text string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("line %d: error line before any section %q", e.Line, e.Text)
}

func (e *OrderingError) Is(target error) bool {
	return target == ErrMalformedCatalog
}
