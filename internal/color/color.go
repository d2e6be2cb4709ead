// Package color paints the schema listing printed by the details command.
package color

import "os"

// ANSI color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"
	Bold    = "\033[1m"
)

// Color wraps text in ANSI codes when enabled.
type Color struct {
	enabled bool
}

// New creates a Color. Colors stay off when NO_COLOR is set or the
// terminal is dumb.
func New(enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor()}
}

func shouldEnableColor() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}

// Enabled reports whether output is colored.
func (c *Color) Enabled() bool {
	return c.enabled
}

func (c *Color) paint(code, text string) string {
	if !c.enabled {
		return text
	}
	return code + text + Reset
}

// Kind colors an object kind label: table, view, type, enum, domain or
// function.
func (c *Color) Kind(kind string) string {
	switch kind {
	case "table", "function":
		return c.paint(Yellow, kind)
	case "view":
		return c.paint(Magenta, kind)
	case "enum":
		return c.paint(Cyan, kind)
	case "domain":
		return c.paint(Red, kind)
	default:
		return c.paint(White, kind)
	}
}

// Name colors an object or attribute name.
func (c *Color) Name(text string) string {
	return c.paint(Green, text)
}

// Type colors a resolved api type.
func (c *Color) Type(text string) string {
	return c.paint(Blue, text)
}

// Dim colors secondary details such as raw types and flags.
func (c *Color) Dim(text string) string {
	return c.paint(Gray, text)
}

// Bold makes text bold
func (c *Color) Bold(text string) string {
	return c.paint(Bold, text)
}
