package ads

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	adserrors "github.com/go-drift/mobileads/pkg/errors"
	"github.com/go-drift/mobileads/pkg/platform"
)

// DefaultViewType is the platform view type ad views are registered under.
const DefaultViewType = "plugins.flutter.io/google_mobile_ads/ad_widget"

const opCreate = "ads.ViewFactory.Create"

// FactoryOptions configures a ViewFactory.
type FactoryOptions struct {
	// Debug makes lookup and request failures render a diagnostic ErrorView
	// instead of an empty one.
	Debug bool

	// ViewType overrides DefaultViewType.
	ViewType string
}

// ViewFactory creates platform views for tracked ads. It implements
// platform.PlatformViewFactory.
type ViewFactory struct {
	ads      AdRegistry
	listener SizeChangedListener
	opts     FactoryOptions
	bindings BindingRegistry
	group    singleflight.Group
}

var _ platform.PlatformViewFactory = (*ViewFactory)(nil)

// NewViewFactory returns a factory resolving handles through ads. Sizes of
// auto-sizing views are reported to listener, which may be nil.
func NewViewFactory(ads AdRegistry, listener SizeChangedListener, opts FactoryOptions) *ViewFactory {
	if opts.ViewType == "" {
		opts.ViewType = DefaultViewType
	}
	return &ViewFactory{ads: ads, listener: listener, opts: opts}
}

// ViewType implements platform.PlatformViewFactory.
func (f *ViewFactory) ViewType() string {
	return f.opts.ViewType
}

// Bindings returns the factory's binding registry.
func (f *ViewFactory) Bindings() *BindingRegistry {
	return &f.bindings
}

// Create implements platform.PlatformViewFactory. The error is always nil:
// failures produce an *ErrorView.
func (f *ViewFactory) Create(viewID int64, args any) (platform.PlatformView, error) {
	return f.CreateView(int(viewID), args), nil
}

// CreateView resolves a creation request into a view. It returns an
// *AdView bound to the handle's surface, or an *ErrorView. viewID is only
// used to label error views for requests whose handle cannot be parsed.
//
// A handle that is already bound returns a view on the existing binding,
// so the mode of the first request wins: an auto-sizing request for a
// handle bound in standard mode gets no size callbacks.
func (f *ViewFactory) CreateView(viewID int, args any) (pv platform.PlatformView) {
	defer adserrors.RecoverWithCallback(opCreate, func(r any) {
		pv = newRequestErrorView(viewID, fmt.Errorf("panic: %v", r), false)
	})

	req, err := ParseRequest(args)
	if err != nil {
		return f.errorView(newRequestErrorView, viewID, adserrors.NoHandle, err)
	}

	b, err := f.bind(req)
	if err != nil {
		return f.errorView(newErrorView, int(req.Handle), int(req.Handle), err)
	}
	if b.Mode() != req.Mode {
		Logger().Warn("handle already bound in another mode; first mode wins",
			zap.Int("handle", int(req.Handle)),
			zap.String("bound", string(b.Mode())),
			zap.String("requested", string(req.Mode)))
	}
	return &AdView{binding: b}
}

// errorView reports err and returns the ErrorView built by newView.
// Diagnostic views show the problem on screen and are not logged; resource
// failures are always logged and always empty.
func (f *ViewFactory) errorView(newView func(int, error, bool) *ErrorView, id, handle int, err error) *ErrorView {
	kind := kindOf(err)
	diagnostic := f.opts.Debug && kind != adserrors.KindResource
	if !diagnostic {
		adserrors.Report(adserrors.New(opCreate, kind, handle, err))
	}
	return newView(id, err, diagnostic)
}

// bind returns a referenced binding for req, building one if needed.
// Concurrent requests for the same handle share one build.
func (f *ViewFactory) bind(req CreationRequest) (*Binding, error) {
	key := strconv.Itoa(int(req.Handle))
	for {
		if b, ok := f.bindings.Load(req.Handle); ok && b.acquire() {
			return b, nil
		}

		v, err, _ := f.group.Do(key, func() (any, error) {
			if b, ok := f.bindings.Load(req.Handle); ok {
				if !b.IsDisposed() {
					return b, nil
				}
				// The surface is still attached until the old teardown ends.
				<-b.Done()
			}
			b, err := f.build(req)
			if err != nil {
				return nil, err
			}
			f.bindings.store(req.Handle, b)
			return b, nil
		})
		if err != nil {
			return nil, err
		}
		if b := v.(*Binding); b.acquire() {
			return b, nil
		}
		// The binding was disposed before we could reference it; try again.
	}
}

func (f *ViewFactory) build(req CreationRequest) (*Binding, error) {
	ctx, ok := f.ads.RenderingContext()
	if !ok || ctx == nil {
		return nil, ErrNoRenderingContext
	}

	ad, ok := f.ads.AdForID(req.Handle)
	if !ok || ad == nil {
		return nil, fmt.Errorf("%w: handle %d", ErrAdNotFound, req.Handle)
	}
	if ls, ok := ad.(LoadStater); ok && !ls.IsLoaded() {
		return nil, fmt.Errorf("%w: handle %d", ErrAdNotLoaded, req.Handle)
	}
	surface := ad.Surface()
	if surface == nil {
		return nil, fmt.Errorf("%w: handle %d", ErrNoSurface, req.Handle)
	}

	b := &Binding{
		handle:   req.Handle,
		mode:     req.Mode,
		registry: &f.bindings,
		surface:  surface,
		done:     make(chan struct{}),
	}

	switch req.Mode {
	case ModeAutoSizing:
		handle := req.Handle
		b.forwarder = NewSizeForwarder(func(width, height int) {
			if f.listener != nil {
				f.listener.OnPlatformViewSizeChanged(handle, width, height)
			}
		})
		sizing, err := newAutoSizingContainer(ctx, surface, b.forwarder)
		if err != nil {
			return nil, fmt.Errorf("attach surface for handle %d: %w", req.Handle, err)
		}
		b.sizing = sizing
		b.root = sizing.View()
	default:
		frame := ctx.NewFrame()
		if err := frame.SetChild(surface); err != nil {
			return nil, fmt.Errorf("attach surface for handle %d: %w", req.Handle, err)
		}
		b.frame = frame
		b.root = frame
	}

	Logger().Debug("binding created",
		zap.Int("handle", int(req.Handle)),
		zap.String("mode", string(req.Mode)))
	return b, nil
}

// Close disposes every registered binding.
func (f *ViewFactory) Close() {
	var bindings []*Binding
	f.bindings.Range(func(_ AdHandle, b *Binding) bool {
		bindings = append(bindings, b)
		return true
	})
	for _, b := range bindings {
		b.Dispose()
	}
}
