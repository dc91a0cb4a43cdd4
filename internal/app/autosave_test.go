package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"pixelforge/internal/project"
	"pixelforge/internal/raster"
	"pixelforge/internal/storage"
	"pixelforge/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Save(string, string) error { return errors.New("disk full") }

func (failingStore) Load(string) (string, bool, error) { return "", false, errors.New("disk gone") }

func TestAutosaveRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewState()
	require.NoError(t, s.PointerDown(geometry.Pt(3, 3)))
	s.PointerLeave()

	a := NewAutosaver(s, store, time.Minute, nil)
	require.NoError(t, a.SaveNow())

	restored := NewState()
	ok, err := NewAutosaver(restored, store, 0, nil).Restore()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, s.Project().Equal(restored.Project()))
}

func TestAutosaveMidShapeCapturesCommittedState(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewState()
	s.SetTool(raster.ToolRectangle)
	require.NoError(t, s.PointerDown(geometry.Pt(0, 0)))
	require.NoError(t, s.PointerMove(geometry.Pt(5, 5)))

	require.NoError(t, NewAutosaver(s, store, 0, nil).SaveNow())

	text, ok, err := store.Load(AutosaveKey)
	require.NoError(t, err)
	require.True(t, ok)
	p, err := project.Unmarshal([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Layers[0].Pixels.Len())
	assert.True(t, s.Dragging(), "autosave does not disturb the drag")
}

func TestAutosaveFailureIsReported(t *testing.T) {
	s := NewState()
	var failures int
	s.On(EventAutosaveFailed, func(interface{}) { failures++ })

	a := NewAutosaver(s, failingStore{}, 0, nil)
	assert.Error(t, a.SaveNow())
	assert.Equal(t, 1, failures)

	ok, err := a.Restore()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRestoreIgnoresMissingAndCorrupt(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewState()
	a := NewAutosaver(s, store, 0, nil)

	ok, err := a.Restore()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(AutosaveKey, `{"width": 4`))
	before := s.Project()
	ok, err = a.Restore()
	assert.ErrorIs(t, err, project.ErrParse)
	assert.False(t, ok)
	assert.True(t, before.Equal(s.Project()))
}

func TestAutosaverTicks(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewState()
	saved := make(chan struct{}, 16)
	s.On(EventAutosaved, func(interface{}) { saved <- struct{}{} })

	a := NewAutosaver(s, store, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)
	a.SetInterval(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, a.Interval())

	select {
	case <-saved:
	case <-time.After(5 * time.Second):
		t.Fatal("autosaver never fired")
	}
	a.Stop()
	a.Stop()

	_, ok, _ := store.Load(AutosaveKey)
	assert.True(t, ok)
}

func TestAutosaverSkipsWhenDisabled(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewState()
	s.SetAutosave(false)

	a := NewAutosaver(s, store, 10*time.Millisecond, nil)
	a.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	a.Stop()

	_, ok, _ := store.Load(AutosaveKey)
	assert.False(t, ok)
}

func TestAutosaverRestartsAfterContextCancel(t *testing.T) {
	store := storage.NewMemoryStore()
	s := NewState()
	saved := make(chan struct{}, 16)
	s.On(EventAutosaved, func(interface{}) { saved <- struct{}{} })

	a := NewAutosaver(s, store, 10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)
	cancel()
	require.Eventually(t, func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.stopCh == nil
	}, 5*time.Second, 5*time.Millisecond)

	a.Start(context.Background())
	defer a.Stop()
	select {
	case <-saved:
	case <-time.After(5 * time.Second):
		t.Fatal("autosaver did not restart after its context ended")
	}
}
