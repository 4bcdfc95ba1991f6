package wizard

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInputTerminal returns true if stdin is a terminal.
func IsInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// CanInteract returns true if prompts can be shown and answered.
func CanInteract(enabled bool) bool {
	return enabled && IsTerminal() && IsInputTerminal()
}
