package colors

func init() {
	EnableColor()
}
