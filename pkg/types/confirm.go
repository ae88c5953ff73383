package types

// Confirmer answers yes/no confirmation questions on behalf of the user.
// The executor asks one question per gated destructive step. Injecting the
// capability keeps the core free of any terminal-library coupling.
type Confirmer interface {
	Confirm(question string) bool
}

// DeclineAll is the non-interactive default: every question is answered no,
// so destructive steps are proposed instead of executed.
type DeclineAll struct{}

func (DeclineAll) Confirm(string) bool { return false }

// AcceptAll approves every question. Used when the user passed an explicit
// assume-yes flag, and in tests.
type AcceptAll struct{}

func (AcceptAll) Confirm(string) bool { return true }

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(question string) bool

func (f ConfirmFunc) Confirm(question string) bool { return f(question) }
