package config

import (
	"sync"
	"time"
)

// RevalidateDelay is how long after the last key edit the catalog is
// refreshed against the provider.
const RevalidateDelay = 500 * time.Millisecond

// Revalidator owns the single pending timer used to re-validate the API
// key after the user pauses typing. Scheduling supersedes any pending
// run; Cancel is called when the setup screen goes away.
type Revalidator struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

// NewRevalidator creates a revalidator with the default delay.
func NewRevalidator() *Revalidator {
	return &Revalidator{delay: RevalidateDelay}
}

// NewRevalidatorWithDelay creates a revalidator with a custom delay.
func NewRevalidatorWithDelay(delay time.Duration) *Revalidator {
	return &Revalidator{delay: delay}
}

// Schedule arms fn to run after the delay, cancelling any pending run.
func (r *Revalidator) Schedule(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, fn)
}

// Cancel drops the pending run, if any.
func (r *Revalidator) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
