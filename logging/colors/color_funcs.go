package colors

import "fmt"

// ColorFunc colours its argument. Passing one to a logging.Logger method switches the colour of every following
// argument in that message.
type ColorFunc = func(s any) string

// Reset formats s without colour.
func Reset(s any) string {
	return fmt.Sprintf("%v", s)
}

func RedBold(s any) string {
	return Colorize(Colorize(s, RED), BOLD)
}

func GreenBold(s any) string {
	return Colorize(Colorize(s, GREEN), BOLD)
}

func YellowBold(s any) string {
	return Colorize(Colorize(s, YELLOW), BOLD)
}

func BlueBold(s any) string {
	return Colorize(Colorize(s, BLUE), BOLD)
}

func CyanBold(s any) string {
	return Colorize(Colorize(s, CYAN), BOLD)
}

// Bold formats s in bold without changing its colour.
func Bold(s any) string {
	return Colorize(s, BOLD)
}

