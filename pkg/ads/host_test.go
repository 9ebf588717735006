package ads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mobileads/pkg/platform"
	"github.com/go-drift/mobileads/pkg/view"
)

func TestHostedAutoSizingView(t *testing.T) {
	bridge := setupBridge(t)

	m := NewManager("test/ads")
	m.SetRenderingContext(view.NewContext("main"))
	surface := newTestSurface(300, 100)
	require.NoError(t, m.TrackAd(&testAd{handle: 1, surface: surface, loaded: true}))

	factory := NewViewFactory(m, m, FactoryOptions{})
	host := platform.NewPlatformViewRegistry("test/platform_views")
	host.RegisterFactory(factory)

	id, pv, err := host.Create(DefaultViewType, map[string]any{"adId": 1, "mode": "autosizing"})
	require.NoError(t, err)
	require.IsType(t, &AdView{}, pv)
	require.Len(t, bridge.Calls("create"), 1)

	require.NoError(t, host.SetViewSize(id, view.Size{Width: 320, Height: 50}))

	// Content growth triggers a relayout through the host at the same slot.
	surface.SetIntrinsicSize(view.Size{Width: 300, Height: 180})
	m.Flush()

	calls := bridge.Calls("onPlatformViewSizeChanged")
	require.Len(t, calls, 2)
	assert.Equal(t, float64(100), calls[0].Args["height"])
	assert.Equal(t, float64(180), calls[1].Args["height"])
	assert.Len(t, bridge.Calls("setGeometry"), 2)

	host.Dispose(id)
	assert.Equal(t, 0, factory.Bindings().Len())
	assert.Equal(t, 0, surface.ObserverCount())
	assert.Len(t, bridge.Calls("dispose"), 1)
}

func TestHostedErrorViewForUnknownHandle(t *testing.T) {
	setupBridge(t)
	observeErrors(t)

	m := NewManager("test/ads")
	m.SetRenderingContext(view.NewContext("main"))
	host := platform.NewPlatformViewRegistry("test/platform_views")
	host.RegisterFactory(NewViewFactory(m, m, FactoryOptions{Debug: true}))

	id, pv, err := host.Create(DefaultViewType, 42)
	require.NoError(t, err)
	ev := mustErrorView(t, pv)
	assert.Contains(t, ev.Text(), "42")

	require.NoError(t, host.SetViewSize(id, view.Size{Width: 200, Height: 40}))
	host.Dispose(id)
	assert.Nil(t, ev.View())
}
