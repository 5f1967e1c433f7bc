package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// Autosave defaults.
const (
	DefaultAutosaveDelay   = 1500 * time.Millisecond
	DefaultAutosaveTimeout = 15 * time.Second
)

// AutosaveConfig configures an Autosave controller.
type AutosaveConfig struct {
	// Delay is the debounce window. Zero uses DefaultAutosaveDelay.
	Delay time.Duration

	// Timeout bounds one save request. Zero uses DefaultAutosaveTimeout.
	Timeout time.Duration

	// BuildID is the persisted build, "" for a document never saved.
	BuildID string
}

// Autosave debounces change notifications into saves.
//
// Every Notify bumps a revision. A save captures the revision before it
// reads the document, so the document is dirty exactly while
// revision > savedRevision. At most one save is in flight; edits made
// during a save trigger a follow-up save once it resolves, so saves for
// a build reach the store in order.
type Autosave struct {
	store   driven.BuildStore
	source  func() domain.Document
	delay   time.Duration
	timeout time.Duration
	log     logger.Scope

	mu            sync.Mutex
	state         domain.SaveState
	buildID       string
	revision      uint64
	savedRevision uint64
	timer         *time.Timer
	timerGen      uint64
	flight        chan struct{}
	lastSavedAt   time.Time
	lastErr       error
	saves         int
	closed        bool
}

// NewAutosave creates a controller that saves source() to store.
func NewAutosave(store driven.BuildStore, source func() domain.Document, cfg AutosaveConfig) *Autosave {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultAutosaveDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAutosaveTimeout
	}
	return &Autosave{
		store:   store,
		source:  source,
		delay:   cfg.Delay,
		timeout: cfg.Timeout,
		log:     logger.For("autosave"),
		state:   domain.SaveStateIdle,
		buildID: cfg.BuildID,
	}
}

// Notify marks the document dirty and restarts the debounce timer.
// It never blocks on I/O. Notifications after Close are ignored.
func (a *Autosave) Notify() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.revision++
	a.arm()
	if a.flight == nil {
		a.state = domain.SaveStatePending
	}
}

// SaveImmediately cancels the debounce timer, waits for an in-flight
// save, then saves synchronously while the document is dirty.
func (a *Autosave) SaveImmediately(ctx context.Context) error {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return domain.ErrSessionClosed
	}
	return a.flush(ctx)
}

// Retry re-attempts a failed save.
func (a *Autosave) Retry(ctx context.Context) error {
	return a.SaveImmediately(ctx)
}

// Close stops accepting notifications and performs a final save if dirty.
// Closing twice is a no-op.
func (a *Autosave) Close(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()
	return a.flush(ctx)
}

// BuildID returns the persisted build ID, "" until the first save.
func (a *Autosave) BuildID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buildID
}

// Status returns a snapshot of the controller state.
func (a *Autosave) Status() domain.SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	status := domain.SaveStatus{
		State:       a.state,
		Dirty:       a.revision > a.savedRevision,
		BuildID:     a.buildID,
		LastSavedAt: a.lastSavedAt,
		Saves:       a.saves,
	}
	if a.lastErr != nil {
		status.LastError = a.lastErr.Error()
	}
	return status
}

// arm replaces the debounce timer. The caller holds mu.
func (a *Autosave) arm() {
	a.disarm()
	gen := a.timerGen
	a.timer = time.AfterFunc(a.delay, func() { a.fire(gen) })
}

// disarm stops the debounce timer. A callback that already started sees
// a stale generation and returns. The caller holds mu.
func (a *Autosave) disarm() {
	a.timerGen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autosave) fire(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.timerGen || a.timer == nil {
		return
	}
	a.timer = nil
	if a.flight != nil {
		// The running save starts a follow-up when it resolves.
		return
	}
	if a.revision <= a.savedRevision {
		a.state = domain.SaveStateIdle
		return
	}
	a.begin()
}

// begin starts an asynchronous save. The caller holds mu.
func (a *Autosave) begin() {
	rev, payload, buildID, done := a.prepare()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		id, err := a.write(ctx, buildID, payload)
		a.finish(rev, id, err, done, true)
	}()
}

// prepare captures the revision and document for a save and marks it
// in flight. The caller holds mu.
func (a *Autosave) prepare() (uint64, domain.Payload, string, chan struct{}) {
	rev := a.revision
	payload := a.source().ToPayload()
	done := make(chan struct{})
	a.flight = done
	a.state = domain.SaveStateSaving
	a.log.Debug("saving revision %d of build %q", rev, a.buildID)
	return rev, payload, a.buildID, done
}

func (a *Autosave) write(ctx context.Context, buildID string, payload domain.Payload) (string, error) {
	if buildID == "" {
		id, err := a.store.Create(ctx, payload)
		if err != nil {
			return "", fmt.Errorf("create build: %w", err)
		}
		return id, nil
	}
	if _, err := a.store.Update(ctx, buildID, payload); err != nil {
		return "", fmt.Errorf("update build %s: %w", buildID, err)
	}
	return "", nil
}

// finish records the outcome of a save. With followUp set it schedules
// whatever the outcome leaves outstanding.
func (a *Autosave) finish(rev uint64, createdID string, err error, done chan struct{}, followUp bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if createdID != "" && a.buildID == "" {
		a.buildID = createdID
	}
	a.flight = nil
	close(done)

	if err != nil {
		a.lastErr = err
		a.state = domain.SaveStateError
		a.log.Warn("save failed, changes kept: %v", err)
		if followUp && !a.closed && a.timer == nil && a.revision > rev {
			// Edits arrived during the failed save; try again after them.
			a.arm()
		}
		return
	}

	if rev > a.savedRevision {
		a.savedRevision = rev
	}
	a.lastSavedAt = time.Now()
	a.lastErr = nil
	a.saves++
	a.state = domain.SaveStateIdle
	a.log.Debug("saved revision %d of build %q", rev, a.buildID)

	switch {
	case a.timer != nil:
		a.state = domain.SaveStatePending
	case followUp && !a.closed && a.revision > a.savedRevision:
		a.begin()
	}
}

// flush saves synchronously until nothing is dirty or a save fails.
func (a *Autosave) flush(ctx context.Context) error {
	for {
		a.mu.Lock()
		a.disarm()
		if a.flight != nil {
			wait := a.flight
			a.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if a.revision <= a.savedRevision {
			if a.state == domain.SaveStatePending {
				a.state = domain.SaveStateIdle
			}
			a.mu.Unlock()
			return nil
		}
		rev, payload, buildID, done := a.prepare()
		a.mu.Unlock()

		saveCtx, cancel := context.WithTimeout(ctx, a.timeout)
		id, err := a.write(saveCtx, buildID, payload)
		cancel()
		a.finish(rev, id, err, done, false)
		if err != nil {
			return err
		}
	}
}
