package render

import (
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// Chroma settings used for diffs.
const (
	diffLexer     = "diff"
	diffFormatter = "terminal256"
	DiffStyle     = "monokai"
)

// Diff writes diff to w, syntax colored when color is true. Without color the
// text is written unchanged.
func Diff(w io.Writer, diff string, color bool) error {
	if !color || diff == "" {
		_, err := io.WriteString(w, diff)
		return err
	}
	return quick.Highlight(w, diff, diffLexer, diffFormatter, DiffStyle)
}
