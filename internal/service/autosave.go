package service

import (
	"sync"
	"time"

	"attachmi/internal/models"
)

// DefaultAutosaveDelay is the quiet period before edits are persisted.
const DefaultAutosaveDelay = 500 * time.Millisecond

// Autosaver coalesces rapid edits to one attachment into a single save.
// Each Schedule call resets the timer and replaces the pending payload; the
// save runs with the payload captured at the last schedule, never with a
// value read later.
type Autosaver struct {
	delay time.Duration
	save  func(models.Attachment)

	mu      sync.Mutex
	timer   *time.Timer
	pending *models.Attachment
}

// NewAutosaver creates an autosaver invoking save after delay of quiet.
// A non-positive delay falls back to DefaultAutosaveDelay.
func NewAutosaver(delay time.Duration, save func(models.Attachment)) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{delay: delay, save: save}
}

// Schedule queues attachment for saving, cancelling any save still pending.
func (a *Autosaver) Schedule(attachment models.Attachment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	snapshot := attachment
	a.pending = &snapshot
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	pending := a.pending
	a.pending = nil
	a.timer = nil
	a.mu.Unlock()

	if pending != nil {
		a.save(*pending)
	}
}

// Flush runs the pending save immediately, if any.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	pending := a.pending
	a.pending = nil
	a.mu.Unlock()

	if pending != nil {
		a.save(*pending)
	}
}

// Stop drops the pending save without running it.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = nil
	a.mu.Unlock()
}
