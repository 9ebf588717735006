package ads

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	adserrors "github.com/go-drift/mobileads/pkg/errors"
)

// NativeAdFactory builds the surface for a loaded native ad from its assets.
type NativeAdFactory interface {
	CreateNativeAd(assets NativeAdAssets, customOptions map[string]any) (Surface, error)
}

// NativeAdFactoryFunc adapts a function to NativeAdFactory.
type NativeAdFactoryFunc func(assets NativeAdAssets, customOptions map[string]any) (Surface, error)

// CreateNativeAd calls f.
func (f NativeAdFactoryFunc) CreateNativeAd(assets NativeAdAssets, customOptions map[string]any) (Surface, error) {
	return f(assets, customOptions)
}

// AdRequest carries targeting for a standard ad request.
type AdRequest struct {
	Keywords    []string
	ContentURL  string
	NonPersonal bool
}

// AdManagerAdRequest carries targeting for an Ad Manager request.
type AdManagerAdRequest struct {
	AdRequest
	CustomTargeting map[string]string
	PublisherID     string
}

// NativeAdConfig describes a native ad before it loads.
//
// Exactly one of Factory and Template renders the ad, and exactly one of
// Request and ManagerRequest is sent.
type NativeAdConfig struct {
	Handle         AdHandle
	AdUnitID       string
	Factory        NativeAdFactory
	Template       *TemplateStyle
	CustomOptions  map[string]any
	Request        *AdRequest
	ManagerRequest *AdManagerAdRequest
}

// Validate checks the configuration.
func (c NativeAdConfig) Validate() error {
	var errs []error
	if c.Handle < 0 {
		errs = append(errs, fmt.Errorf("negative handle %d", c.Handle))
	}
	if c.AdUnitID == "" {
		errs = append(errs, errors.New("ad unit ID is required"))
	}
	switch {
	case c.Factory == nil && c.Template == nil:
		errs = append(errs, errors.New("a factory or a template style is required"))
	case c.Factory != nil && c.Template != nil:
		errs = append(errs, errors.New("factory and template style are mutually exclusive"))
	case c.Template != nil:
		if err := c.Template.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if (c.Request == nil) == (c.ManagerRequest == nil) {
		errs = append(errs, errors.New("exactly one of request and ad manager request is required"))
	}
	if len(errs) == 0 {
		return nil
	}
	return adserrors.New("ads.NativeAdConfig.Validate", adserrors.KindValidation, int(c.Handle),
		fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...)))
}

// NativeAd is a native ad whose surface is built when the SDK reports its
// assets. It implements Ad, LoadStater and Disposer.
type NativeAd struct {
	cfg NativeAdConfig

	mu       sync.Mutex
	surface  Surface
	assets   NativeAdAssets
	loaded   bool
	disposed bool
}

var (
	_ Ad         = (*NativeAd)(nil)
	_ LoadStater = (*NativeAd)(nil)
	_ Disposer   = (*NativeAd)(nil)
)

// NewNativeAd validates cfg and returns an unloaded ad.
func NewNativeAd(cfg NativeAdConfig) (*NativeAd, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &NativeAd{cfg: cfg}, nil
}

// Handle implements Ad.
func (a *NativeAd) Handle() AdHandle {
	return a.cfg.Handle
}

// AdUnitID returns the configured ad unit.
func (a *NativeAd) AdUnitID() string {
	return a.cfg.AdUnitID
}

// OnLoaded builds the surface from assets. Failures are reported and leave
// the ad unloaded. It is a no-op after Dispose or once the ad is loaded.
func (a *NativeAd) OnLoaded(assets NativeAdAssets) (err error) {
	const op = "ads.NativeAd.OnLoaded"
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed || a.loaded {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			adserrors.ReportPanic(&adserrors.PanicError{
				Op:         op,
				Value:      r,
				StackTrace: adserrors.CaptureStack(),
			})
			err = adserrors.New(op, adserrors.KindPanic, int(a.cfg.Handle), fmt.Errorf("panic: %v", r))
		}
	}()

	surface, buildErr := a.buildSurface(assets)
	if buildErr == nil && surface == nil {
		buildErr = ErrNoSurface
	}
	if buildErr != nil {
		e := adserrors.New(op, adserrors.KindResource, int(a.cfg.Handle), buildErr)
		adserrors.Report(e)
		return e
	}

	a.surface = surface
	a.assets = assets
	a.loaded = true
	Logger().Debug("native ad loaded",
		zap.Int("handle", int(a.cfg.Handle)),
		zap.String("adUnitId", a.cfg.AdUnitID))
	return nil
}

func (a *NativeAd) buildSurface(assets NativeAdAssets) (Surface, error) {
	if a.cfg.Template != nil {
		return NewTemplateSurface(*a.cfg.Template, assets), nil
	}
	return a.cfg.Factory.CreateNativeAd(assets, a.cfg.CustomOptions)
}

// Assets returns the loaded assets.
func (a *NativeAd) Assets() (NativeAdAssets, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.assets, a.loaded
}

// Surface implements Ad. It is nil until the ad loads and after Dispose.
func (a *NativeAd) Surface() Surface {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.surface
}

// IsLoaded implements LoadStater.
func (a *NativeAd) IsLoaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded && !a.disposed
}

// Dispose destroys the surface. Safe to call more than once.
func (a *NativeAd) Dispose() {
	a.mu.Lock()
	if a.disposed {
		a.mu.Unlock()
		return
	}
	a.disposed = true
	surface := a.surface
	a.surface = nil
	a.mu.Unlock()

	if surface != nil {
		surface.Destroy()
	}
}
