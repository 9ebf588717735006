package ads

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/go-drift/mobileads/pkg/view"
)

// Binding is the registry entry tying a handle to its attached surface.
//
// A binding is shared by every AdView created for its handle while it is
// registered. It is torn down when the last AdView is disposed, or directly
// through Dispose.
type Binding struct {
	handle   AdHandle
	mode     Mode
	registry *BindingRegistry

	mu        sync.Mutex
	refs      int
	disposed  atomic.Bool
	done      chan struct{}
	surface   Surface
	root      view.View
	frame     *view.Frame
	sizing    *AutoSizingContainer
	forwarder *SizeForwarder
}

// Handle returns the ad handle.
func (b *Binding) Handle() AdHandle {
	return b.handle
}

// Mode returns the embedding mode chosen when the binding was created.
func (b *Binding) Mode() Mode {
	return b.mode
}

// Surface returns the attached surface, or nil after disposal.
func (b *Binding) Surface() Surface {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface
}

// View returns the root view handed to the host, or nil after disposal.
func (b *Binding) View() view.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.root
}

// AutoSizing returns the sizing wrapper, or nil in standard mode.
func (b *Binding) AutoSizing() *AutoSizingContainer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sizing
}

// LastForwardedSize returns the last size forwarded to the listener.
// It is always false in standard mode.
func (b *Binding) LastForwardedSize() (view.Size, bool) {
	if b.forwarder == nil {
		return view.Size{}, false
	}
	return b.forwarder.Last()
}

// Refs returns the number of live AdViews sharing the binding.
func (b *Binding) Refs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refs
}

// IsDisposed reports whether Dispose has run.
func (b *Binding) IsDisposed() bool {
	return b.disposed.Load()
}

// Done returns a channel that is closed once teardown has finished and the
// surface is free to be attached elsewhere.
func (b *Binding) Done() <-chan struct{} {
	return b.done
}

// acquire adds a reference. It fails once the binding is disposed.
func (b *Binding) acquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed.Load() {
		return false
	}
	b.refs++
	return true
}

// release drops a reference and tears down the binding with the last one.
func (b *Binding) release() {
	b.mu.Lock()
	if b.refs > 0 {
		b.refs--
	}
	last := b.refs == 0 && b.disposed.CompareAndSwap(false, true)
	b.mu.Unlock()
	if last {
		b.teardown()
	}
}

// Dispose tears down the binding. Safe to call any number of times.
func (b *Binding) Dispose() {
	b.mu.Lock()
	first := b.disposed.CompareAndSwap(false, true)
	b.mu.Unlock()
	if first {
		b.teardown()
	}
}

// teardown unregisters the observer before anything else so no callback
// can see a half-released binding. The surface itself is left to its ad,
// and is only detached from this binding's own container: a newer binding
// may already hold it.
func (b *Binding) teardown() {
	defer close(b.done)

	b.mu.Lock()
	sizing := b.sizing
	surface := b.surface
	var container view.View
	if b.frame != nil {
		container = b.frame
	}
	b.mu.Unlock()

	if sizing != nil {
		sizing.removeObserver()
		container = sizing.Inner()
	}
	if surface != nil && container != nil {
		view.DetachFrom(container, surface)
	}
	if sizing != nil {
		sizing.release()
	}

	b.mu.Lock()
	b.surface = nil
	b.sizing = nil
	b.frame = nil
	b.root = nil
	b.mu.Unlock()

	if b.registry != nil {
		b.registry.Release(b.handle, b)
	}
	Logger().Debug("binding disposed", zap.Int("handle", int(b.handle)))
}

// AdView is the platform view returned to the host for one creation request.
type AdView struct {
	binding  *Binding
	released atomic.Bool
}

// View returns the binding's root view, or nil once this AdView is disposed.
func (v *AdView) View() view.View {
	if v.released.Load() {
		return nil
	}
	return v.binding.View()
}

// Binding returns the shared binding.
func (v *AdView) Binding() *Binding {
	return v.binding
}

// Surface returns the bound surface, or nil once this AdView is disposed.
func (v *AdView) Surface() Surface {
	if v.released.Load() {
		return nil
	}
	return v.binding.Surface()
}

// Dispose releases this AdView's reference on the binding. Safe to call
// more than once.
func (v *AdView) Dispose() {
	if v.released.CompareAndSwap(false, true) {
		v.binding.release()
	}
}
