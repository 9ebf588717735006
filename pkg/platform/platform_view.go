package platform

import (
	stderrors "errors"
	"sync"
	"sync/atomic"

	"github.com/go-drift/mobileads/pkg/errors"
	"github.com/go-drift/mobileads/pkg/view"
)

// PlatformView is a native view hosted by the host application.
type PlatformView interface {
	// View returns the root of the view tree to embed. It returns nil once
	// the platform view has been disposed.
	View() view.View

	// Dispose releases the platform view. Safe to call more than once.
	Dispose()
}

// PlatformViewFactory creates platform views of a specific type.
type PlatformViewFactory interface {
	// Create creates a new platform view instance for the creation args sent
	// by the host.
	Create(viewID int64, args any) (PlatformView, error)

	// ViewType returns the view type this factory creates.
	ViewType() string
}

// hostedView tracks a platform view and the size the host last gave it.
type hostedView struct {
	view     PlatformView
	viewType string
	size     view.Size
	hasSize  bool
}

// PlatformViewRegistry hosts platform views for one host embedding. It owns
// view ID assignment, runs layout passes when the host resizes a view, and
// notifies the native side of view lifecycle and geometry.
//
// Create one registry at startup with NewPlatformViewRegistry and Close it at
// shutdown.
type PlatformViewRegistry struct {
	factories map[string]PlatformViewFactory
	views     map[int64]*hostedView
	nextID    atomic.Int64
	mu        sync.RWMutex
	channel   *MethodChannel
}

// NewPlatformViewRegistry creates a registry that talks to native code on the
// named method channel.
func NewPlatformViewRegistry(channelName string) *PlatformViewRegistry {
	r := &PlatformViewRegistry{
		factories: make(map[string]PlatformViewFactory),
		views:     make(map[int64]*hostedView),
		channel:   NewMethodChannel(channelName),
	}
	r.channel.SetHandler(r.handleMethodCall)
	return r
}

// Channel returns the channel the registry communicates on.
func (r *PlatformViewRegistry) Channel() *MethodChannel {
	return r.channel
}

// RegisterFactory registers a factory for a platform view type.
func (r *PlatformViewRegistry) RegisterFactory(factory PlatformViewFactory) {
	r.mu.Lock()
	r.factories[factory.ViewType()] = factory
	r.mu.Unlock()
}

// Create creates a new platform view of the given type and returns its ID.
func (r *PlatformViewRegistry) Create(viewType string, args any) (int64, PlatformView, error) {
	r.mu.RLock()
	factory, ok := r.factories[viewType]
	r.mu.RUnlock()

	if !ok {
		return 0, nil, ErrViewTypeNotFound
	}

	viewID := r.nextID.Add(1)

	pv, err := factory.Create(viewID, args)
	if err != nil {
		return 0, nil, err
	}

	r.mu.Lock()
	r.views[viewID] = &hostedView{view: pv, viewType: viewType}
	r.mu.Unlock()

	r.installRelayout(viewID, pv)

	// Notify native to create the view
	_, err = r.channel.Invoke("create", map[string]any{
		"viewId":   viewID,
		"viewType": viewType,
	})
	if err != nil {
		r.mu.Lock()
		delete(r.views, viewID)
		r.mu.Unlock()
		pv.Dispose()
		return 0, nil, err
	}

	return viewID, pv, nil
}

// installRelayout routes layout requests from inside the view tree back to
// this registry, so a surface whose content size changed gets a new pass at
// the size the host last assigned.
func (r *PlatformViewRegistry) installRelayout(viewID int64, pv PlatformView) {
	root := pv.View()
	if root == nil {
		return
	}
	setter, ok := root.(interface{ SetRelayoutHandler(func()) })
	if !ok {
		return
	}
	setter.SetRelayoutHandler(func() {
		relayout := func() {
			if err := r.Relayout(viewID); err != nil && !stderrors.Is(err, ErrViewNotFound) {
				r.report("platform.Relayout", err)
			}
		}
		if !Dispatch(relayout) {
			relayout()
		}
	})
}

// Dispose destroys a platform view. Unknown IDs are ignored.
func (r *PlatformViewRegistry) Dispose(viewID int64) {
	r.mu.Lock()
	hv, ok := r.views[viewID]
	if ok {
		delete(r.views, viewID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	if root := hv.view.View(); root != nil {
		if setter, ok := root.(interface{ SetRelayoutHandler(func()) }); ok {
			setter.SetRelayoutHandler(nil)
		}
	}
	hv.view.Dispose()

	// Notify native to destroy the view
	if _, err := r.channel.Invoke("dispose", map[string]any{"viewId": viewID}); err != nil {
		r.report("platform.Dispose", err)
	}
}

// GetView returns a platform view by ID, or nil.
func (r *PlatformViewRegistry) GetView(viewID int64) PlatformView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if hv, ok := r.views[viewID]; ok {
		return hv.view
	}
	return nil
}

// Len returns the number of live platform views.
func (r *PlatformViewRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// SetViewSize records the size the host allocated to a view and runs a
// layout pass under that size.
func (r *PlatformViewRegistry) SetViewSize(viewID int64, size view.Size) error {
	r.mu.Lock()
	hv, ok := r.views[viewID]
	if ok {
		hv.size = size
		hv.hasSize = true
	}
	r.mu.Unlock()
	if !ok {
		return ErrViewNotFound
	}
	return r.layout(viewID, hv.view, size)
}

// Relayout runs a layout pass at the size last given to SetViewSize. Views
// that have not been sized yet are skipped.
func (r *PlatformViewRegistry) Relayout(viewID int64) error {
	r.mu.RLock()
	hv, ok := r.views[viewID]
	var size view.Size
	var hasSize bool
	if ok {
		size, hasSize = hv.size, hv.hasSize
	}
	r.mu.RUnlock()
	if !ok {
		return ErrViewNotFound
	}
	if !hasSize {
		return nil
	}
	return r.layout(viewID, hv.view, size)
}

func (r *PlatformViewRegistry) layout(viewID int64, pv PlatformView, size view.Size) error {
	root := pv.View()
	if root == nil {
		return nil
	}
	view.LayoutRoot(root, view.Tight(size))

	_, err := r.channel.Invoke("setGeometry", map[string]any{
		"viewId": viewID,
		"width":  size.Width,
		"height": size.Height,
	})
	return err
}

// Close disposes every live platform view.
func (r *PlatformViewRegistry) Close() {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.Dispose(id)
	}
}

// handleMethodCall processes incoming method calls from native code.
func (r *PlatformViewRegistry) handleMethodCall(method string, args any) (any, error) {
	switch method {
	case "onViewCreated", "onViewDisposed":
		return nil, nil

	case "resize":
		m, ok := AsMap(args)
		if !ok {
			return nil, ErrInvalidArguments
		}
		id, okID := AsInt64(m["viewId"])
		w, okW := AsInt64(m["width"])
		h, okH := AsInt64(m["height"])
		if !okID || !okW || !okH || w < 0 || h < 0 {
			return nil, ErrInvalidArguments
		}
		return nil, r.SetViewSize(id, view.Size{Width: int(w), Height: int(h)})

	case "dispose":
		m, ok := AsMap(args)
		if !ok {
			return nil, ErrInvalidArguments
		}
		id, ok := AsInt64(m["viewId"])
		if !ok {
			return nil, ErrInvalidArguments
		}
		r.Dispose(id)
		return nil, nil

	default:
		return nil, ErrMethodNotFound
	}
}

func (r *PlatformViewRegistry) report(op string, err error) {
	errors.Report(&errors.AdError{
		Op:      op,
		Kind:    errors.KindPlatform,
		Handle:  errors.NoHandle,
		Channel: r.channel.Name(),
		Err:     err,
	})
}
