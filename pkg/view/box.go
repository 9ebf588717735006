package view

import "sync"

// Box is a leaf view with an intrinsic size.
type Box struct {
	Base
	mu        sync.Mutex
	intrinsic Size
}

// NewBox creates a leaf view that prefers the given size.
func NewBox(intrinsic Size) *Box {
	b := &Box{intrinsic: intrinsic}
	b.SetSelf(b)
	return b
}

// IntrinsicSize implements IntrinsicSizer.
func (b *Box) IntrinsicSize() Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.intrinsic
}

// SetIntrinsicSize changes the preferred size and requests a layout pass.
func (b *Box) SetIntrinsicSize(size Size) {
	b.mu.Lock()
	changed := b.intrinsic != size
	b.intrinsic = size
	b.mu.Unlock()
	if changed {
		b.RequestLayout()
	}
}

func (b *Box) Measure(c Constraints) Size {
	size := c.Constrain(b.IntrinsicSize())
	b.SetMeasuredSize(size)
	return size
}

func (b *Box) Layout(frame Rect) {
	b.CommitLayout(frame)
}
