package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"pixelforge/internal/project"
	"pixelforge/internal/storage"
)

// AutosaveKey is the storage key the autosaver writes under.
const AutosaveKey = "pixelforge-autosave"

// DefaultAutosaveInterval is how often the autosaver writes.
const DefaultAutosaveInterval = 30 * time.Second

// Autosaver periodically writes the editor's committed state to a store.
// Saves happen only while the state has autosave enabled. Failures are
// logged and emitted as EventAutosaveFailed; editing carries on.
type Autosaver struct {
	state *State
	store storage.Store
	log   *zap.Logger

	mu       sync.Mutex
	interval time.Duration
	resetCh  chan time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewAutosaver creates an autosaver. A non-positive interval means
// DefaultAutosaveInterval.
func NewAutosaver(state *State, store storage.Store, interval time.Duration, log *zap.Logger) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Autosaver{
		state:    state,
		store:    store,
		log:      log.With(zap.String("key", AutosaveKey)),
		interval: interval,
	}
}

// Start begins saving in a background goroutine until ctx is done or Stop
// is called. Once either happens the autosaver can be started again.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopCh != nil {
		return
	}
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	a.resetCh = make(chan time.Duration, 1)
	go a.loop(ctx, a.interval, a.stopCh, a.doneCh, a.resetCh)
}

// Stop ends the background goroutine and waits for it to exit.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh, a.resetCh = nil, nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
}

// SetInterval changes the save period, taking effect immediately.
func (a *Autosaver) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultAutosaveInterval
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.interval = d
	if a.resetCh == nil {
		return
	}
	for {
		select {
		case a.resetCh <- d:
			return
		default:
		}
		// Drop a pending reset the loop has not picked up yet.
		select {
		case <-a.resetCh:
		default:
		}
	}
}

// Interval returns the current save period.
func (a *Autosaver) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

func (a *Autosaver) loop(ctx context.Context, interval time.Duration, stopCh, doneCh chan struct{}, resetCh chan time.Duration) {
	defer close(doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.detach(stopCh)
			return
		case <-stopCh:
			return
		case d := <-resetCh:
			ticker.Reset(d)
		case <-ticker.C:
			if !a.state.AutosaveEnabled() {
				continue
			}
			_ = a.SaveNow()
		}
	}
}

// detach forgets the channels of a loop that ended on its own, unless Stop
// or a later Start has already replaced them.
func (a *Autosaver) detach(stopCh chan struct{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopCh == stopCh {
		a.stopCh, a.doneCh, a.resetCh = nil, nil, nil
	}
}

// SaveNow writes the current committed state once.
func (a *Autosaver) SaveNow() error {
	data, err := project.Marshal(a.state.Project())
	if err == nil {
		err = a.store.Save(AutosaveKey, string(data))
	}
	if err != nil {
		a.log.Error("autosave", zap.Error(err))
		a.state.Emit(EventAutosaveFailed, err)
		a.state.Emit(EventNotice, Notice{Level: NoticeError, Message: "Auto-save failed"})
		return err
	}
	a.log.Debug("autosaved", zap.Int("bytes", len(data)))
	a.state.Emit(EventAutosaved, nil)
	return nil
}

// Restore loads the autosaved project into the state, if one exists. A
// corrupt autosave is logged and left alone; the state is not touched.
func (a *Autosaver) Restore() (bool, error) {
	text, ok, err := a.store.Load(AutosaveKey)
	if err != nil {
		a.log.Warn("read autosave", zap.Error(err))
		return false, fmt.Errorf("failed to read autosave: %w", err)
	}
	if !ok {
		return false, nil
	}
	p, err := project.Unmarshal([]byte(text))
	if err != nil {
		a.log.Warn("discard corrupt autosave", zap.Error(err))
		return false, err
	}
	a.state.LoadProject(p)
	a.state.Emit(EventNotice, Notice{Level: NoticeSuccess, Message: "Auto-saved project loaded"})
	return true, nil
}
