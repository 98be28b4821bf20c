// Package render turns explanations and diffs into terminal output.
package render

// Options configures the markdown renderer behavior.
type Options struct {
	// Width is the word wrap column; 0 means the terminal width.
	Width int

	// Style is "auto", a glamour built-in style name, or a path to a JSON style.
	Style string

	// PreserveNewLines keeps the model's line breaks.
	PreserveNewLines bool

	// TableWrap enables word wrap in table cells.
	TableWrap bool
}

// Defaults.
const (
	DefaultWidth = 80
	StyleAuto    = "auto"
)

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            DefaultWidth,
		Style:            StyleAuto,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
