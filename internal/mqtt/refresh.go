package mqtt

import "sync/atomic"

// Refresh is shared between device handlers and the broker. Handlers
// request a refresh and the broker takes it on its next poll.
type Refresh struct {
	requested atomic.Bool
}

func (r *Refresh) Request() {
	r.requested.Store(true)
}

// Take reports whether a refresh was requested and clears the request.
func (r *Refresh) Take() bool {
	return r.requested.Swap(false)
}
