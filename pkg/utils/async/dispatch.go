package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs fn in a new goroutine detached from the caller's
// cancellation. The dispatch endpoint responds before the pipeline run
// finishes, so the run must not die with the request context, and a
// panic inside it must not take the server down.
//
// Context values (including the ctxlog logger) are preserved; only
// cancellation is cut.
func Dispatch(ctx context.Context, fn func(ctx context.Context) error) {
	runCtx := context.WithoutCancel(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(runCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := fn(runCtx); err != nil {
			ctxlog.From(runCtx).Error("error in async handler", "error", err)
		}
	}()
}
