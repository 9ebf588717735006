package ads

import (
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	adserrors "github.com/go-drift/mobileads/pkg/errors"
	"github.com/go-drift/mobileads/pkg/view"
)

// testSurface is a box with a destroy counter.
type testSurface struct {
	*view.Box
	destroyed atomic.Int32
}

func newTestSurface(w, h int) *testSurface {
	return &testSurface{Box: view.NewBox(view.Size{Width: w, Height: h})}
}

func (s *testSurface) Destroy() {
	s.destroyed.Add(1)
}

// testAd is a minimal Ad with an optional load state.
type testAd struct {
	handle  AdHandle
	surface Surface
	loaded  bool
}

func (a *testAd) Handle() AdHandle { return a.handle }
func (a *testAd) Surface() Surface { return a.surface }
func (a *testAd) IsLoaded() bool   { return a.loaded }

type sizeEvent struct {
	Handle        AdHandle
	Width, Height int
}

// recorder collects size notifications.
type recorder struct {
	events chan sizeEvent
}

func newRecorder() *recorder {
	return &recorder{events: make(chan sizeEvent, 64)}
}

func (r *recorder) OnPlatformViewSizeChanged(handle AdHandle, width, height int) {
	r.events <- sizeEvent{handle, width, height}
}

func (r *recorder) drain() []sizeEvent {
	var out []sizeEvent
	for {
		select {
		case e := <-r.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

// fixture wires a manager, a factory, and a recorder around a fresh context.
type fixture struct {
	manager  *Manager
	factory  *ViewFactory
	recorder *recorder
}

func newFixture(t *testing.T, debug bool) *fixture {
	t.Helper()
	m := NewManager("test/ads")
	m.SetRenderingContext(view.NewContext("test"))
	rec := newRecorder()
	return &fixture{
		manager:  m,
		factory:  NewViewFactory(m, rec, FactoryOptions{Debug: debug}),
		recorder: rec,
	}
}

func (f *fixture) track(t *testing.T, handle AdHandle, s Surface) *testAd {
	t.Helper()
	ad := &testAd{handle: handle, surface: s, loaded: true}
	if err := f.manager.TrackAd(ad); err != nil {
		t.Fatalf("TrackAd(%d): %v", handle, err)
	}
	return ad
}

// observeErrors routes reported errors to an in-memory log for the test.
func observeErrors(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	adserrors.SetHandler(&adserrors.LogHandler{Logger: zap.New(core)})
	t.Cleanup(func() { adserrors.SetHandler(nil) })
	return logs
}
