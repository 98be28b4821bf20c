package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/samzong/aigit/internal/ui"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(mode string) (string, error) {
	switch mode {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return mode, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
}

// ResolveColorMode determines whether color output is enabled for w:
//   - "never":  always disabled
//   - "always": always enabled
//   - "auto":   enabled when w is a terminal and NO_COLOR is unset
func ResolveColorMode(mode string, w io.Writer) bool {
	switch mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		return ui.IsTerminal(w) && os.Getenv("NO_COLOR") == ""
	}
}

// Width returns the terminal width of w, or fallback when it is unknown.
func Width(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// Header formats a section title written to w.
func Header(w io.Writer, title string, color bool) string {
	if !color {
		return "==> " + title
	}
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.ANSI256)
	arrow := renderer.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	text := renderer.NewStyle().Bold(true)
	return arrow.Render("==>") + " " + text.Render(title)
}
