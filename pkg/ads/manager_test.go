package ads

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mobileads/pkg/platform"
	"github.com/go-drift/mobileads/pkg/view"
)

func setupBridge(t *testing.T) *platform.RecordingBridge {
	t.Helper()
	return platform.SetupTestBridge(t.Cleanup)
}

type disposableAd struct {
	testAd
	disposed int
}

func (a *disposableAd) Dispose() { a.disposed++ }

func TestManager_TrackAndLookup(t *testing.T) {
	m := NewManager("")
	ad := &testAd{handle: 1, loaded: true}

	require.NoError(t, m.TrackAd(ad))
	assert.ErrorIs(t, m.TrackAd(&testAd{handle: 1}), ErrHandleInUse)
	assert.ErrorIs(t, m.TrackAd(&testAd{handle: -2}), ErrMalformedRequest)

	got, ok := m.AdForID(1)
	require.True(t, ok)
	assert.Same(t, ad, got)

	_, ok = m.AdForID(2)
	assert.False(t, ok)
}

func TestManager_RenderingContext(t *testing.T) {
	m := NewManager("test/ads")
	_, ok := m.RenderingContext()
	assert.False(t, ok)

	m.SetRenderingContext(view.NewContext("main"))
	ctx, ok := m.RenderingContext()
	require.True(t, ok)
	assert.NotNil(t, ctx)

	m.SetRenderingContext(nil)
	_, ok = m.RenderingContext()
	assert.False(t, ok)
}

func TestManager_DisposeAd(t *testing.T) {
	m := NewManager("test/ads")
	ad := &disposableAd{testAd: testAd{handle: 3}}
	require.NoError(t, m.TrackAd(ad))

	m.DisposeAd(3)
	m.DisposeAd(3)
	m.DisposeAd(99)

	assert.Equal(t, 1, ad.disposed)
	_, ok := m.AdForID(3)
	assert.False(t, ok)
}

func TestManager_DisposeAll(t *testing.T) {
	m := NewManager("test/ads")
	ads := []*disposableAd{
		{testAd: testAd{handle: 1}},
		{testAd: testAd{handle: 2}},
	}
	for _, ad := range ads {
		require.NoError(t, m.TrackAd(ad))
	}

	m.DisposeAll()
	for _, ad := range ads {
		assert.Equal(t, 1, ad.disposed)
	}
}

func TestManager_SizeChangedReachesListenersAndHost(t *testing.T) {
	bridge := setupBridge(t)
	m := NewManager("test/ads")

	var got []sizeEvent
	m.AddSizeListener(SizeChangedFunc(func(h AdHandle, w, hgt int) {
		got = append(got, sizeEvent{h, w, hgt})
	}))

	m.OnPlatformViewSizeChanged(8, 320, 100)
	m.Flush()

	assert.Equal(t, []sizeEvent{{8, 320, 100}}, got)
	calls := bridge.Calls("onPlatformViewSizeChanged")
	require.Len(t, calls, 1)
	assert.Equal(t, "test/ads", calls[0].Channel)
	assert.Equal(t, map[string]any{"adId": float64(8), "width": float64(320), "height": float64(100)}, calls[0].Args)
}

func TestManager_SizeChangedChannelFailureIsReported(t *testing.T) {
	logs := observeErrors(t)
	bridge := setupBridge(t)
	bridge.FailWith(errors.New("host gone"))
	m := NewManager("test/ads")

	require.NotPanics(t, func() { m.OnPlatformViewSizeChanged(8, 1, 1) })
	m.Flush()
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "platform", fields["kind"])
	assert.Equal(t, "test/ads", fields["channel"])
}

func TestManager_AutoSizedViewNotifiesHost(t *testing.T) {
	bridge := setupBridge(t)
	m := NewManager("test/ads")
	m.SetRenderingContext(view.NewContext("main"))
	surface := newTestSurface(300, 250)
	require.NoError(t, m.TrackAd(&testAd{handle: 2, surface: surface, loaded: true}))

	factory := NewViewFactory(m, m, FactoryOptions{})
	av := mustAdView(t, factory.CreateView(1, map[string]any{"adId": 2, "mode": "autosizing"}))
	view.LayoutRoot(av.View(), view.Tight(view.Size{Width: 320, Height: 50}))
	view.LayoutRoot(av.View(), view.Tight(view.Size{Width: 320, Height: 50}))
	m.Flush()

	calls := bridge.Calls("onPlatformViewSizeChanged")
	require.Len(t, calls, 1)
	assert.Equal(t, float64(300), calls[0].Args["width"])
	assert.Equal(t, float64(250), calls[0].Args["height"])
}

// slowBridge answers every call after a delay.
type slowBridge struct {
	platform.RecordingBridge
	delay time.Duration
}

func (b *slowBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	time.Sleep(b.delay)
	return b.RecordingBridge.InvokeMethod(channel, method, args)
}

func TestManager_SlowHostDoesNotBlockLayout(t *testing.T) {
	setupBridge(t)
	bridge := &slowBridge{delay: 300 * time.Millisecond}
	platform.SetNativeBridge(bridge)

	m := NewManager("test/ads")
	m.SetRenderingContext(view.NewContext("main"))
	surface := newTestSurface(300, 250)
	require.NoError(t, m.TrackAd(&testAd{handle: 4, surface: surface, loaded: true}))
	factory := NewViewFactory(m, m, FactoryOptions{})
	av := mustAdView(t, factory.CreateView(1, map[string]any{"adId": 4, "mode": "autosizing"}))

	start := time.Now()
	view.LayoutRoot(av.View(), view.Tight(view.Size{Width: 320, Height: 50}))
	surface.SetIntrinsicSize(view.Size{Width: 300, Height: 280})
	view.LayoutRoot(av.View(), view.Tight(view.Size{Width: 320, Height: 50}))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	m.Flush()
	calls := bridge.Calls("onPlatformViewSizeChanged")
	require.Len(t, calls, 2)
	assert.Equal(t, float64(250), calls[0].Args["height"])
	assert.Equal(t, float64(280), calls[1].Args["height"])
}

func TestManager_CloseDropsLateNotifications(t *testing.T) {
	bridge := setupBridge(t)
	m := NewManager("test/ads")
	ad := &disposableAd{testAd: testAd{handle: 1}}
	require.NoError(t, m.TrackAd(ad))

	m.OnPlatformViewSizeChanged(1, 10, 10)
	m.Close()
	m.OnPlatformViewSizeChanged(1, 20, 20)
	m.Flush()

	assert.Len(t, bridge.Calls("onPlatformViewSizeChanged"), 1)
	assert.Equal(t, 1, ad.disposed)
}

func TestManager_InboundCalls(t *testing.T) {
	setupBridge(t)
	m := NewManager("test/ads")
	ad := &disposableAd{testAd: testAd{handle: 5, loaded: true}}
	require.NoError(t, m.TrackAd(ad))

	call := func(method string, args any) (any, error) {
		data, err := platform.DefaultCodec.Encode(args)
		require.NoError(t, err)
		out, err := platform.HandleMethodCall("test/ads", method, data)
		if err != nil {
			return nil, err
		}
		return platform.DefaultCodec.Decode(out)
	}

	loaded, err := call("isAdLoaded", map[string]any{"adId": 5})
	require.NoError(t, err)
	assert.Equal(t, true, loaded)

	loaded, err = call("isAdLoaded", map[string]any{"adId": 6})
	require.NoError(t, err)
	assert.Equal(t, false, loaded)

	_, err = call("disposeAd", map[string]any{"adId": 5})
	require.NoError(t, err)
	assert.Equal(t, 1, ad.disposed)

	_, err = call("disposeAd", map[string]any{"adId": "five"})
	assert.ErrorIs(t, err, platform.ErrInvalidArguments)

	_, err = call("unknown", nil)
	assert.ErrorIs(t, err, platform.ErrMethodNotFound)
}
