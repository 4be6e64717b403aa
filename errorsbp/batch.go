package errorsbp

import (
	"errors"
	"fmt"
	"strings"
)

var _ error = Batch{}

// Batch accumulates the errors of a multi-part operation, such as a
// cleanup that must attempt every step regardless of earlier failures,
// into a single error value.
//
// The zero value is an empty batch, ready to use. A Batch is not safe for
// concurrent use.
type Batch struct {
	errs []error
}

// Add appends every non-nil error to the batch. If an error is itself a
// Batch (or wraps one), its underlying errors are appended instead, so
// batches stay flat.
func (b *Batch) Add(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		var nested Batch
		if errors.As(err, &nested) {
			b.errs = append(b.errs, nested.errs...)
			continue
		}
		b.errs = append(b.errs, err)
	}
}

// Len returns the number of errors accumulated so far.
func (b Batch) Len() int {
	return len(b.errs)
}

// Compile reduces the batch to a single error value: nil when the batch is
// empty, the sole error when it holds exactly one, and the batch itself
// otherwise.
func (b Batch) Compile() error {
	switch len(b.errs) {
	case 0:
		return nil
	case 1:
		return b.errs[0]
	default:
		return b
	}
}

func (b Batch) Error() string {
	descriptions := make([]string, len(b.errs))
	for i, err := range b.errs {
		descriptions[i] = err.Error()
	}
	return fmt.Sprintf(
		"errorsbp: %d errors: %s",
		len(b.errs),
		strings.Join(descriptions, "; "),
	)
}

// Unwrap exposes the accumulated errors to errors.Is and errors.As.
func (b Batch) Unwrap() []error {
	return b.errs
}
