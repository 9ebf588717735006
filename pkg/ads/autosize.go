package ads

import (
	"sync"

	"github.com/go-drift/mobileads/pkg/view"
)

// SizeForwarder forwards measured sizes, dropping repeats and the (0, 0)
// pre-layout default.
type SizeForwarder struct {
	mu      sync.Mutex
	last    view.Size
	has     bool
	forward func(width, height int)
}

// NewSizeForwarder returns a forwarder that calls fn for every accepted size.
func NewSizeForwarder(fn func(width, height int)) *SizeForwarder {
	return &SizeForwarder{forward: fn}
}

// Observe offers a measured size and reports whether it was forwarded.
func (f *SizeForwarder) Observe(size view.Size) bool {
	if size.IsZero() {
		return false
	}
	f.mu.Lock()
	if f.has && f.last == size {
		f.mu.Unlock()
		return false
	}
	f.last = size
	f.has = true
	fn := f.forward
	f.mu.Unlock()

	if fn != nil {
		fn(size.Width, size.Height)
	}
	return true
}

// Last returns the last forwarded size.
func (f *SizeForwarder) Last() (view.Size, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.has
}

// AutoSizingContainer embeds content so it lays out at its intrinsic size.
//
// The content sits in a vertical scroll container with clipping and scroll
// indicators off, nested in a horizontal one. The outer container takes the
// size the host allocates; neither axis constrains the content. An observer
// on the content feeds every post-layout measurement to a SizeForwarder.
type AutoSizingContainer struct {
	outer     *view.ScrollContainer
	inner     *view.ScrollContainer
	content   view.View
	observer  *view.LayoutObserver
	forwarder *SizeForwarder
}

func newAutoSizingContainer(ctx RenderingContext, content view.View, forwarder *SizeForwarder) (*AutoSizingContainer, error) {
	inner := ctx.NewScrollContainer(view.Vertical)
	inner.ClipChildren = false
	inner.VerticalScrollBar = false
	inner.HorizontalScrollBar = false
	if err := inner.SetChild(content); err != nil {
		return nil, err
	}

	outer := ctx.NewScrollContainer(view.Horizontal)
	if err := outer.SetChild(inner); err != nil {
		view.DetachFrom(inner, content)
		return nil, err
	}

	c := &AutoSizingContainer{
		outer:     outer,
		inner:     inner,
		content:   content,
		forwarder: forwarder,
	}
	c.observer = content.AddOnLayoutChange(func(v view.View, _, _ view.Rect) {
		forwarder.Observe(v.MeasuredSize())
	})
	return c, nil
}

// View returns the outermost container.
func (c *AutoSizingContainer) View() view.View {
	return c.outer
}

// Content returns the wrapped content.
func (c *AutoSizingContainer) Content() view.View {
	return c.content
}

// Inner returns the content-sizing container.
func (c *AutoSizingContainer) Inner() *view.ScrollContainer {
	return c.inner
}

// removeObserver stops size forwarding.
func (c *AutoSizingContainer) removeObserver() {
	if c.observer != nil {
		c.observer.Remove()
	}
}

// release drops the container chain. The content must already be detached.
func (c *AutoSizingContainer) release() {
	view.DetachFrom(c.outer, c.inner)
	c.content = nil
	c.inner = nil
	c.outer = nil
	c.observer = nil
}
