package ads

import "github.com/go-drift/mobileads/pkg/view"

// AdHandle identifies one ad instance between the host and the rendering
// layer. Handles are non-negative and are not reused while a binding for
// them is live.
type AdHandle int

// Surface is the native rendering unit produced once an ad finishes loading.
// It can be attached to one parent at a time.
type Surface interface {
	view.View

	// Destroy releases the surface's native resources. Safe to call more
	// than once. Only the ad-lifecycle component that created the surface
	// calls it.
	Destroy()
}

// Ad is a tracked ad instance.
type Ad interface {
	// Handle returns the ad's handle.
	Handle() AdHandle

	// Surface returns the renderable surface, or nil if the ad has none.
	Surface() Surface
}

// LoadStater is implemented by ads that load asynchronously.
type LoadStater interface {
	// IsLoaded reports whether loading finished successfully.
	IsLoaded() bool
}

// Disposer is implemented by ads that hold native resources.
type Disposer interface {
	Dispose()
}

// RenderingContext creates the host containers a surface is embedded in.
// *view.Context implements it.
type RenderingContext interface {
	NewScrollContainer(axis view.Axis) *view.ScrollContainer
	NewFrame() *view.Frame
}

// AdRegistry resolves handles to loaded ads.
type AdRegistry interface {
	// AdForID returns the ad tracked under handle.
	AdForID(handle AdHandle) (Ad, bool)

	// RenderingContext returns the host context, or false if the host has
	// not provided one yet.
	RenderingContext() (RenderingContext, bool)
}

// SizeChangedListener receives the measured content size of auto-sized ads.
type SizeChangedListener interface {
	OnPlatformViewSizeChanged(handle AdHandle, width, height int)
}

// SizeChangedFunc adapts a function to SizeChangedListener.
type SizeChangedFunc func(handle AdHandle, width, height int)

// OnPlatformViewSizeChanged calls f.
func (f SizeChangedFunc) OnPlatformViewSizeChanged(handle AdHandle, width, height int) {
	f(handle, width, height)
}
