package markdown

import (
	"cmp"
	"slices"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
)

// Edit is a byte-range replacement in a markdown source. End is exclusive.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits with offsets into the original
// source. Edits are applied back to front so earlier offsets stay valid.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int {
		if a.Start == b.Start {
			return cmp.Compare(b.End, a.End)
		}
		return cmp.Compare(b.Start, a.Start)
	})

	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < e.Start || e.End > len(source):
			return nil, errors.InternalError("edit range out of bounds").
				WithContext("start", e.Start).
				WithContext("end", e.End).
				WithContext("size", len(source)).
				Build()
		case i > 0 && e.End > sorted[i-1].Start:
			return nil, errors.InternalError("overlapping edits").
				WithContext("start", e.Start).
				WithContext("next_start", sorted[i-1].Start).
				Build()
		}
	}

	out := slices.Clone(source)
	for _, e := range sorted {
		out = slices.Replace(out, e.Start, e.End, e.Replacement...)
	}
	return out, nil
}
