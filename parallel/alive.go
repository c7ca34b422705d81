package parallel

import "sync"

// Alive is a liveness token. Work observing it stops once Shutdown is called.
type Alive struct {
	done chan struct{}
	once sync.Once
}

// NewAlive returns a live token
func NewAlive() *Alive {
	return &Alive{done: make(chan struct{})}
}

// Shutdown revokes the token. It is safe to call more than once.
func (a *Alive) Shutdown() {
	a.once.Do(func() { close(a.done) })
}

// IsAlive reports whether Shutdown has not been called yet
func (a *Alive) IsAlive() bool {
	select {
	case <-a.done:
		return false
	default:
		return true
	}
}

// Done is closed when the token is revoked
func (a *Alive) Done() <-chan struct{} {
	return a.done
}
