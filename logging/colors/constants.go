package colors

// Color is an ANSI SGR code.
type Color int

// ANSI codes as used by zerolog's console writer.
const (
	BLACK Color = iota + 30
	RED
	GREEN
	YELLOW
	BLUE
	MAGENTA
	CYAN
	WHITE

	BOLD Color = 1
)

// RIGHT_ARROW prefixes info-level console lines.
const RIGHT_ARROW = "⇾"
