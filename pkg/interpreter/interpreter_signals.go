package interpreter

import (
	"fmt"

	"github.com/dlains/ringo/pkg/runtime"
	"github.com/dlains/ringo/pkg/token"
)

// RuntimeError aborts the current top-level statement list. Token supplies
// the line reported alongside Message.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s [line: %d]", e.Message, e.Token.Line)
}

func newRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// returnSignal unwinds to the nearest function call. It is never a
// RuntimeError, so nothing that handles runtime errors can intercept it.
type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}
