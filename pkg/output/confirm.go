package output

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// PTermConfirmer asks yes/no questions through an interactive terminal
// prompt. The default answer is no: declining must always be the path of
// least resistance for destructive work.
type PTermConfirmer struct{}

func (PTermConfirmer) Confirm(question string) bool {
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(question)
	if err != nil {
		return false
	}
	return ok
}

// StdinIsTerminal reports whether a human can answer prompts.
func StdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
