package docblocks

import (
	"fmt"
	"strings"
)

// IgnoreFlagError is returned when start and end ignore flags are unbalanced.
type IgnoreFlagError struct {
	Starts int
	Ends   int
}

func (e *IgnoreFlagError) Error() string {
	return fmt.Sprintf("all \"sphinx_gallery_start_ignore\" flags must have a matching "+
		"\"sphinx_gallery_end_ignore\" flag (found %d start, %d end)", e.Starts, e.Ends)
}

// RemoveIgnoreBlocks removes every region running from a start ignore flag
// line through the next end ignore flag line, both flag lines included.
// Regions do not nest: a second start inside a region is removed with it.
func (s *Syntax) RemoveIgnoreBlocks(code string) (string, error) {
	var starts, ends int
	for piece := range strings.Lines(code) {
		line := strings.TrimSuffix(piece, "\n")
		switch {
		case s.startIgnore.MatchString(line):
			starts++
		case s.endIgnore.MatchString(line):
			ends++
		}
	}
	if starts != ends {
		return "", &IgnoreFlagError{Starts: starts, Ends: ends}
	}
	if starts == 0 {
		return code, nil
	}

	var out, region strings.Builder
	skipping := false
	for piece := range strings.Lines(code) {
		line := strings.TrimSuffix(piece, "\n")
		switch {
		case !skipping && s.startIgnore.MatchString(line):
			skipping = true
			region.Reset()
			region.WriteString(piece)
		case skipping && s.endIgnore.MatchString(line):
			skipping = false
		case skipping:
			region.WriteString(piece)
		default:
			out.WriteString(piece)
		}
	}
	// A start with no end after it is left in place.
	if skipping {
		out.WriteString(region.String())
	}
	return out.String(), nil
}
