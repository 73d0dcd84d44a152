package markdown

import (
	"errors"
	"fmt"
	"slices"
)

// Edit replaces source[Start:End] with Replacement. Offsets refer to the original source.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ErrOverlappingEdits is returned when two edits touch the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edit ranges")

// ApplyEdits applies non-overlapping byte-range edits and returns a new buffer.
// Include expansion uses it to splice file contents over directive lines.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int { return a.Start - b.Start })

	size := len(source)
	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < e.Start:
			return nil, fmt.Errorf("invalid edit[%d]: range %d..%d", i, e.Start, e.End)
		case e.End > len(source):
			return nil, fmt.Errorf("invalid edit[%d]: range out of bounds", i)
		case i > 0 && e.Start < sorted[i-1].End:
			return nil, ErrOverlappingEdits
		}
		size += len(e.Replacement) - (e.End - e.Start)
	}

	out := make([]byte, 0, size)
	prev := 0
	for _, e := range sorted {
		out = append(out, source[prev:e.Start]...)
		out = append(out, e.Replacement...)
		prev = e.End
	}
	return append(out, source[prev:]...), nil
}
