// Package color wraps fatih/color for the CLI's status lines. Colors are
// dropped automatically when stdout is not a terminal.
package color

import "github.com/fatih/color"

var (
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Yellow = color.New(color.FgHiYellow).SprintFunc()
)

// OK prefixes msg with a green check mark.
func OK(msg string) string {
	return Green("✓ ") + msg
}

// Fail prefixes msg with a red cross.
func Fail(msg string) string {
	return Red("x ") + msg
}

// Warn prefixes msg with a yellow bang.
func Warn(msg string) string {
	return Yellow("! ") + msg
}
