package ads

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adserrors "github.com/go-drift/mobileads/pkg/errors"
	"github.com/go-drift/mobileads/pkg/view"
)

func validConfig() NativeAdConfig {
	style := DefaultTemplateStyle()
	return NativeAdConfig{
		Handle:   1,
		AdUnitID: "ca-app-pub-3940256099942544/2247696110",
		Template: &style,
		Request:  &AdRequest{Keywords: []string{"go"}},
	}
}

func TestNativeAdConfig_Validate(t *testing.T) {
	factory := NativeAdFactoryFunc(func(NativeAdAssets, map[string]any) (Surface, error) {
		return newTestSurface(1, 1), nil
	})
	bad := DefaultTemplateStyle()
	bad.Size = "huge"

	tests := []struct {
		name   string
		mutate func(*NativeAdConfig)
		ok     bool
	}{
		{"valid template", func(*NativeAdConfig) {}, true},
		{"valid factory", func(c *NativeAdConfig) { c.Template = nil; c.Factory = factory }, true},
		{"ad manager request", func(c *NativeAdConfig) {
			c.Request = nil
			c.ManagerRequest = &AdManagerAdRequest{CustomTargeting: map[string]string{"k": "v"}}
		}, true},
		{"missing ad unit", func(c *NativeAdConfig) { c.AdUnitID = "" }, false},
		{"no renderer", func(c *NativeAdConfig) { c.Template = nil }, false},
		{"both renderers", func(c *NativeAdConfig) { c.Factory = factory }, false},
		{"no request", func(c *NativeAdConfig) { c.Request = nil }, false},
		{"both requests", func(c *NativeAdConfig) { c.ManagerRequest = &AdManagerAdRequest{} }, false},
		{"bad template", func(c *NativeAdConfig) { c.Template = &bad }, false},
		{"negative handle", func(c *NativeAdConfig) { c.Handle = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidOptions)
			var adErr *adserrors.AdError
			require.ErrorAs(t, err, &adErr)
			assert.Equal(t, adserrors.KindValidation, adErr.Kind)
		})
	}
}

func TestNativeAd_Lifecycle(t *testing.T) {
	ad, err := NewNativeAd(validConfig())
	require.NoError(t, err)

	assert.False(t, ad.IsLoaded())
	assert.Nil(t, ad.Surface(), "unloaded ad must return an untyped nil surface")

	require.NoError(t, ad.OnLoaded(NativeAdAssets{Headline: "Gophers", CallToAction: "Install"}))
	assert.True(t, ad.IsLoaded())
	surface, ok := ad.Surface().(*TemplateSurface)
	require.True(t, ok)
	assert.Equal(t, "Gophers", surface.Assets().Headline)

	// A second load keeps the first surface.
	require.NoError(t, ad.OnLoaded(NativeAdAssets{Headline: "Other"}))
	assert.Same(t, surface, ad.Surface())

	ad.Dispose()
	ad.Dispose()
	assert.True(t, surface.IsDestroyed())
	assert.False(t, ad.IsLoaded())
	assert.Nil(t, ad.Surface())
}

func TestNativeAd_FactoryFailureIsReported(t *testing.T) {
	logs := observeErrors(t)
	cfg := validConfig()
	cfg.Template = nil
	cfg.Factory = NativeAdFactoryFunc(func(NativeAdAssets, map[string]any) (Surface, error) {
		return nil, errors.New("inflate failed")
	})
	ad, err := NewNativeAd(cfg)
	require.NoError(t, err)

	err = ad.OnLoaded(NativeAdAssets{})
	require.Error(t, err)
	assert.False(t, ad.IsLoaded())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "resource", logs.All()[0].ContextMap()["kind"])
}

func TestNativeAd_FactoryPanicIsRecovered(t *testing.T) {
	observeErrors(t)
	cfg := validConfig()
	cfg.Template = nil
	cfg.Factory = NativeAdFactoryFunc(func(NativeAdAssets, map[string]any) (Surface, error) {
		panic("bad factory")
	})
	ad, err := NewNativeAd(cfg)
	require.NoError(t, err)

	var loadErr error
	require.NotPanics(t, func() { loadErr = ad.OnLoaded(NativeAdAssets{}) })
	var adErr *adserrors.AdError
	require.ErrorAs(t, loadErr, &adErr)
	assert.Equal(t, adserrors.KindPanic, adErr.Kind)
	assert.False(t, ad.IsLoaded())
}

func TestNativeAd_CustomOptionsReachFactory(t *testing.T) {
	var got map[string]any
	cfg := validConfig()
	cfg.Template = nil
	cfg.CustomOptions = map[string]any{"layout": "compact"}
	cfg.Factory = NativeAdFactoryFunc(func(_ NativeAdAssets, opts map[string]any) (Surface, error) {
		got = opts
		return newTestSurface(10, 10), nil
	})
	ad, err := NewNativeAd(cfg)
	require.NoError(t, err)
	require.NoError(t, ad.OnLoaded(NativeAdAssets{}))
	assert.Equal(t, "compact", got["layout"])
}

func TestNativeAd_ViewLifecycleThroughFactory(t *testing.T) {
	f := newFixture(t, true)
	ad, err := NewNativeAd(validConfig())
	require.NoError(t, err)
	require.NoError(t, f.manager.TrackAd(ad))

	// Not loaded yet.
	observeErrors(t)
	ev := mustErrorView(t, f.factory.CreateView(1, 1))
	assert.ErrorIs(t, ev.Err(), ErrAdNotLoaded)

	require.NoError(t, ad.OnLoaded(NativeAdAssets{Headline: "Gophers", Body: "Fast builds", CallToAction: "Install"}))
	av := mustAdView(t, f.factory.CreateView(2, map[string]any{"adId": 1, "mode": "autosizing"}))
	view.LayoutRoot(av.View(), view.Tight(view.Size{Width: 320, Height: 50}))

	events := f.recorder.drain()
	require.Len(t, events, 1)
	assert.Equal(t, ad.Surface().(*TemplateSurface).IntrinsicSize(), view.Size{Width: events[0].Width, Height: events[0].Height})

	av.Dispose()
	f.manager.DisposeAd(1)
	assert.Nil(t, ad.Surface())
}
