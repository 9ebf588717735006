// Package view models the host view hierarchy that native ad surfaces are
// attached to: measurement under constraints, frame assignment, and
// layout-change observers that fire synchronously within a layout pass.
package view

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrAlreadyAttached is returned when a view that already has a parent
	// is added to another container.
	ErrAlreadyAttached = errors.New("view: already attached to a parent")

	// ErrNilChild is returned when a nil view is added to a container.
	ErrNilChild = errors.New("view: nil child")
)

// View is a node in the host view hierarchy.
//
// Implementations embed [Base] and call [Base.SetSelf] during construction.
type View interface {
	// Measure computes the size of the view under the given constraints and
	// records it as the measured size.
	Measure(c Constraints) Size

	// Layout positions the view (and its children) within frame and notifies
	// layout-change observers.
	Layout(frame Rect)

	// MeasuredSize returns the size recorded by the last Measure call.
	MeasuredSize() Size

	// Frame returns the frame assigned by the last Layout call.
	Frame() Rect

	// Parent returns the container holding this view, or nil.
	Parent() View

	// AddOnLayoutChange registers fn to run after every layout pass of this view.
	AddOnLayoutChange(fn LayoutChangeFunc) *LayoutObserver

	node() *Base
}

// IntrinsicSizer is implemented by views that know their natural content size
// independent of the constraints imposed by a parent.
type IntrinsicSizer interface {
	IntrinsicSize() Size
}

// LayoutChangeFunc is called synchronously at the end of a view's layout pass.
// It must only do cheap work.
type LayoutChangeFunc func(v View, frame, old Rect)

// LayoutObserver is a registration returned by [View.AddOnLayoutChange].
type LayoutObserver struct {
	owner   *Base
	fn      LayoutChangeFunc
	removed atomic.Bool
}

// Remove unregisters the observer. Safe to call more than once.
func (o *LayoutObserver) Remove() {
	if o.removed.CompareAndSwap(false, true) {
		o.owner.removeObserver(o)
	}
}

// IsRemoved reports whether Remove has been called.
func (o *LayoutObserver) IsRemoved() bool {
	return o.removed.Load()
}

// Base provides the bookkeeping shared by all views.
type Base struct {
	self      View
	mu        sync.Mutex
	parent    View
	measured  Size
	frame     Rect
	observers []*LayoutObserver
	relayout  func()
}

// SetSelf records the concrete view embedding this Base.
func (b *Base) SetSelf(v View) {
	b.self = v
}

func (b *Base) node() *Base {
	return b
}

// MeasuredSize returns the size recorded by the last measurement.
func (b *Base) MeasuredSize() Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.measured
}

// SetMeasuredSize records the result of a measurement.
func (b *Base) SetMeasuredSize(size Size) {
	b.mu.Lock()
	b.measured = size
	b.mu.Unlock()
}

// Frame returns the frame assigned by the last layout pass.
func (b *Base) Frame() Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame
}

// Parent returns the container holding this view, or nil.
func (b *Base) Parent() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parent
}

// AddOnLayoutChange registers fn to run after every layout pass.
func (b *Base) AddOnLayoutChange(fn LayoutChangeFunc) *LayoutObserver {
	o := &LayoutObserver{owner: b, fn: fn}
	b.mu.Lock()
	b.observers = append(b.observers, o)
	b.mu.Unlock()
	return o
}

// ObserverCount returns the number of registered layout-change observers.
func (b *Base) ObserverCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}

func (b *Base) removeObserver(o *LayoutObserver) {
	b.mu.Lock()
	for i, cur := range b.observers {
		if cur == o {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
}

// CommitLayout records frame and notifies layout-change observers.
// Containers call it after laying out their children.
func (b *Base) CommitLayout(frame Rect) {
	b.mu.Lock()
	old := b.frame
	b.frame = frame
	observers := make([]*LayoutObserver, len(b.observers))
	copy(observers, b.observers)
	b.mu.Unlock()

	for _, o := range observers {
		if !o.IsRemoved() && o.fn != nil {
			o.fn(b.self, frame, old)
		}
	}
}

// SetRelayoutHandler installs the function run when a view anywhere below
// this root requests a new layout pass.
func (b *Base) SetRelayoutHandler(fn func()) {
	b.mu.Lock()
	b.relayout = fn
	b.mu.Unlock()
}

// RequestLayout asks the root of this view's tree to schedule a layout pass.
// It is a no-op if the root has no relayout handler.
func (b *Base) RequestLayout() {
	n := b
	for {
		p := n.Parent()
		if p == nil {
			break
		}
		n = p.node()
	}
	n.mu.Lock()
	fn := n.relayout
	n.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// childRemover is implemented by containers.
type childRemover interface {
	removeChild(child View) bool
}

func attach(parent, child View) error {
	if child == nil {
		return ErrNilChild
	}
	n := child.node()
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.parent != nil {
		return ErrAlreadyAttached
	}
	n.parent = parent
	return nil
}

func detach(child View) {
	n := child.node()
	n.mu.Lock()
	n.parent = nil
	n.mu.Unlock()
}

// Detach removes v from its parent container. It reports whether v was attached.
func Detach(v View) bool {
	if v == nil {
		return false
	}
	p := v.Parent()
	if p == nil {
		return false
	}
	if r, ok := p.(childRemover); ok {
		return r.removeChild(v)
	}
	detach(v)
	return true
}

// DetachFrom removes v from parent only if parent currently holds it. It
// reports whether v was removed.
func DetachFrom(parent, v View) bool {
	if parent == nil || v == nil {
		return false
	}
	r, ok := parent.(childRemover)
	if !ok {
		return false
	}
	return r.removeChild(v)
}

// LayoutRoot runs a full measure and layout pass on root under c and returns
// the resulting size.
func LayoutRoot(root View, c Constraints) Size {
	size := root.Measure(c)
	root.Layout(RectFromLTWH(0, 0, size.Width, size.Height))
	return size
}
