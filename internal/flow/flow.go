// Package flow is the load-then-render state machine shared by every page
// that shows backend data: Loading, then Error or Ready.
package flow

import (
	"context"

	"github.com/iliyamo/employee-portal/internal/api"
	"github.com/iliyamo/employee-portal/internal/session"
)

// State of a view.
type State int

const (
	Loading State = iota
	Error
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Messages and targets used on session failures.
const (
	UnauthorizedMessage = "Unauthorized or session expired"
	LoginPath           = "/login?expired=1"
)

// View is the renderable result of a load.  Redirect is set when the page
// must not be rendered and the browser should go elsewhere instead.
type View[T any] struct {
	State    State
	Data     T
	Message  string
	Redirect string
}

// Tokens is the part of a session a load needs.
type Tokens interface {
	Get(key string) (string, bool)
}

// Load runs read and maps its outcome onto a view.  Without a token the
// read is never attempted.  Session failures redirect to login (the API
// client has already cleared the session); any other failure yields
// failure as the message.
func Load[T any](ctx context.Context, sess Tokens, read func(context.Context) (T, error), failure string) View[T] {
	v := View[T]{State: Loading}
	if _, ok := sess.Get(session.KeyToken); !ok {
		return v.fail(UnauthorizedMessage, LoginPath)
	}
	data, err := read(ctx)
	switch {
	case err == nil:
		v.State = Ready
		v.Data = data
		return v
	case api.IsSessionError(err):
		return v.fail(UnauthorizedMessage, LoginPath)
	default:
		return v.fail(failure, "")
	}
}

func (v View[T]) fail(msg, redirect string) View[T] {
	v.State = Error
	v.Message = msg
	v.Redirect = redirect
	return v
}
