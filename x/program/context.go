package program

import (
	"context"

	"github.com/iov-one/custody"
)

type contextKey int

const contextKeyProgram contextKey = iota

// WithProgramID returns a context that selects given program as the caller
// of program operations.
func WithProgramID(ctx custody.Context, programID string) custody.Context {
	return context.WithValue(ctx, contextKeyProgram, programID)
}

// ProgramID returns the program selected by the context.
func ProgramID(ctx custody.Context) (string, bool) {
	id, ok := ctx.Value(contextKeyProgram).(string)
	return id, ok && id != ""
}
