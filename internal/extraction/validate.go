package extraction

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutOfBounds indicates a range that is inverted or exceeds the source length
	ErrOutOfBounds = errors.New("range out of bounds")

	// ErrSignatureStart indicates a signature that does not start where the function starts
	ErrSignatureStart = errors.New("signature does not start at function start")

	// ErrBodyOutsideFull indicates a body range that is not contained in the full range
	ErrBodyOutsideFull = errors.New("body outside function range")

	// ErrDocOverlap indicates a doc comment that does not end before the function starts
	ErrDocOverlap = errors.New("doc comment overlaps function")

	// ErrDocNotAdjacent indicates non-whitespace between the doc comment and the function
	ErrDocNotAdjacent = errors.New("doc comment not adjacent to function")
)

// Validate checks a record against the source it was extracted from.
// It returns nil when every range is in bounds and the structural invariants hold.
func Validate(fn FunctionInfo, source []byte) error {
	var errs []error

	ranges := []struct {
		label string
		r     ByteRange
	}{
		{"signature", fn.Signature},
		{"body", fn.Body},
		{"full", fn.Full},
	}
	if fn.Doc != nil {
		ranges = append(ranges, struct {
			label string
			r     ByteRange
		}{"doc", *fn.Doc})
	}

	for _, rr := range ranges {
		if rr.r.Start < 0 || rr.r.Start > rr.r.End || rr.r.End > len(source) {
			errs = append(errs, fmt.Errorf("%w: %s %s with source length %d", ErrOutOfBounds, rr.label, rr.r, len(source)))
		}
	}

	if fn.Signature.Start != fn.Full.Start {
		errs = append(errs, fmt.Errorf("%w: signature %s, full %s", ErrSignatureStart, fn.Signature, fn.Full))
	}

	if !fn.Full.Contains(fn.Body) {
		errs = append(errs, fmt.Errorf("%w: body %s, full %s", ErrBodyOutsideFull, fn.Body, fn.Full))
	}

	if fn.Doc != nil {
		if fn.Doc.End > fn.Full.Start {
			errs = append(errs, fmt.Errorf("%w: doc %s, full %s", ErrDocOverlap, fn.Doc, fn.Full))
		} else if len(errs) == 0 {
			gap := ByteRange{Start: fn.Doc.End, End: fn.Full.Start}.Slice(source)
			if len(strings.TrimSpace(string(gap))) != 0 {
				errs = append(errs, fmt.Errorf("%w: %q between doc and function", ErrDocNotAdjacent, gap))
			}
		}
	}

	return errors.Join(errs...)
}
