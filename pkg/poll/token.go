package poll

import "context"

// token is the cancellation token for one start generation of a
// session. Every continuation checks it before touching session state;
// Stop and Close invalidate it.
type token struct {
	ctx    context.Context
	cancel context.CancelFunc

	// flight is the fetch currently running under this token. Guarded
	// by the owning session's mutex.
	flight *flight
}

type flight struct {
	done chan struct{}
}

func newToken() *token {
	ctx, cancel := context.WithCancel(context.Background())
	return &token{ctx: ctx, cancel: cancel}
}

func (t *token) alive() bool {
	return t.ctx.Err() == nil
}

func (t *token) invalidate() {
	t.cancel()
}
