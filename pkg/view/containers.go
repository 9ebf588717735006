package view

import "sync"

// singleChild holds the optional child of a single-child container.
type singleChild struct {
	mu    sync.Mutex
	child View
}

func (s *singleChild) get() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child
}

func (s *singleChild) set(parent, child View) error {
	if err := attach(parent, child); err != nil {
		return err
	}
	s.mu.Lock()
	old := s.child
	s.child = child
	s.mu.Unlock()
	if old != nil {
		detach(old)
	}
	return nil
}

func (s *singleChild) remove(child View) bool {
	s.mu.Lock()
	if s.child == nil || s.child != child {
		s.mu.Unlock()
		return false
	}
	s.child = nil
	s.mu.Unlock()
	detach(child)
	return true
}

// ScrollContainer is a single-child container that scrolls along one axis.
// The child is measured without an upper bound on the main axis, so it can
// reach its natural extent there, while the container itself still honors
// the constraints it is given.
type ScrollContainer struct {
	Base
	axis     Axis
	children singleChild

	// ClipChildren clips the child to the container bounds when true.
	ClipChildren bool

	// VerticalScrollBar shows the vertical scroll indicator.
	VerticalScrollBar bool

	// HorizontalScrollBar shows the horizontal scroll indicator.
	HorizontalScrollBar bool
}

// NewScrollContainer creates a scroll container on the given axis with
// clipping and the main-axis scroll indicator enabled.
func NewScrollContainer(axis Axis) *ScrollContainer {
	s := &ScrollContainer{
		axis:                axis,
		ClipChildren:        true,
		VerticalScrollBar:   axis == Vertical,
		HorizontalScrollBar: axis == Horizontal,
	}
	s.SetSelf(s)
	return s
}

// Axis returns the scroll axis.
func (s *ScrollContainer) Axis() Axis {
	return s.axis
}

// SetChild attaches child, replacing any previous child.
func (s *ScrollContainer) SetChild(child View) error {
	return s.children.set(s, child)
}

// Child returns the current child, or nil.
func (s *ScrollContainer) Child() View {
	return s.children.get()
}

func (s *ScrollContainer) removeChild(child View) bool {
	return s.children.remove(child)
}

func (s *ScrollContainer) Measure(c Constraints) Size {
	child := s.Child()
	if child == nil {
		size := c.Constrain(Size{})
		s.SetMeasuredSize(size)
		return size
	}
	childSize := child.Measure(c.Loosen().WithUnboundedAxis(s.axis))
	size := c.Constrain(childSize)
	s.SetMeasuredSize(size)
	return size
}

func (s *ScrollContainer) Layout(frame Rect) {
	if child := s.Child(); child != nil {
		cs := child.MeasuredSize()
		child.Layout(RectFromLTWH(0, 0, cs.Width, cs.Height))
	}
	s.CommitLayout(frame)
}

// Frame is a single-child container that passes its constraints through.
// A child of a Frame is sized by whatever the host imposes.
type Frame struct {
	Base
	children singleChild
}

// NewFrame creates an empty pass-through container.
func NewFrame() *Frame {
	f := &Frame{}
	f.SetSelf(f)
	return f
}

// SetChild attaches child, replacing any previous child.
func (f *Frame) SetChild(child View) error {
	return f.children.set(f, child)
}

// Child returns the current child, or nil.
func (f *Frame) Child() View {
	return f.children.get()
}

func (f *Frame) removeChild(child View) bool {
	return f.children.remove(child)
}

func (f *Frame) Measure(c Constraints) Size {
	var size Size
	if child := f.Child(); child != nil {
		size = child.Measure(c)
	}
	size = c.Constrain(size)
	f.SetMeasuredSize(size)
	return size
}

func (f *Frame) Layout(frame Rect) {
	if child := f.Child(); child != nil {
		child.Layout(RectFromLTWH(0, 0, frame.Width(), frame.Height()))
	}
	f.CommitLayout(frame)
}

// Context creates the containers native surfaces are embedded in.
type Context struct {
	// Name identifies the host, for diagnostics.
	Name string
}

// NewContext returns a host context with the given name.
func NewContext(name string) *Context {
	return &Context{Name: name}
}

// NewScrollContainer creates a scroll container in this context.
func (c *Context) NewScrollContainer(axis Axis) *ScrollContainer {
	return NewScrollContainer(axis)
}

// NewFrame creates a pass-through container in this context.
func (c *Context) NewFrame() *Frame {
	return NewFrame()
}
