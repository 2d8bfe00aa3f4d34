//go:build !windows

package colors

import "fmt"

// enabled reports whether Colorize emits escape codes.
var enabled = true

// EnableColor turns ANSI colouring on. Unix terminals support escape codes, so there is nothing to probe.
func EnableColor() {
	enabled = true
}

// DisableColor makes Colorize return its input unchanged.
func DisableColor() {
	enabled = false
}

// Colorize wraps s in the ANSI code c.
func Colorize(s any, c Color) string {
	if !enabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
