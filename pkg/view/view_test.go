package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraints_Constrain(t *testing.T) {
	c := Constraints{MinWidth: 10, MaxWidth: 100, MinHeight: 5, MaxHeight: 50}
	assert.Equal(t, Size{Width: 10, Height: 50}, c.Constrain(Size{Width: 2, Height: 90}))
	assert.Equal(t, Size{Width: 40, Height: 20}, c.Constrain(Size{Width: 40, Height: 20}))
	assert.True(t, Tight(Size{Width: 3, Height: 4}).IsTight())
	assert.False(t, Loose(Size{Width: 3, Height: 4}).IsTight())
}

func TestConstraints_WithUnboundedAxis(t *testing.T) {
	c := Tight(Size{Width: 320, Height: 50}).Loosen()
	h := c.WithUnboundedAxis(Horizontal)
	assert.Equal(t, Unbounded, h.MaxWidth)
	assert.Equal(t, 50, h.MaxHeight)
	v := c.WithUnboundedAxis(Vertical)
	assert.Equal(t, 320, v.MaxWidth)
	assert.Equal(t, Unbounded, v.MaxHeight)
}

func TestBox_ClampedByTightConstraints(t *testing.T) {
	box := NewBox(Size{Width: 300, Height: 250})
	size := LayoutRoot(box, Tight(Size{Width: 320, Height: 50}))
	assert.Equal(t, Size{Width: 320, Height: 50}, size)
	assert.Equal(t, RectFromLTWH(0, 0, 320, 50), box.Frame())
}

func TestNestedScrollContainers_ReachIntrinsicSize(t *testing.T) {
	content := NewBox(Size{Width: 300, Height: 250})
	inner := NewScrollContainer(Vertical)
	outer := NewScrollContainer(Horizontal)
	require.NoError(t, inner.SetChild(content))
	require.NoError(t, outer.SetChild(inner))

	size := LayoutRoot(outer, Tight(Size{Width: 320, Height: 50}))

	assert.Equal(t, Size{Width: 320, Height: 50}, size, "outer takes the host size")
	assert.Equal(t, Size{Width: 300, Height: 250}, content.MeasuredSize(), "content keeps its natural size")
	assert.Equal(t, RectFromLTWH(0, 0, 300, 250), content.Frame())
}

func TestAttach_RejectsSecondParent(t *testing.T) {
	content := NewBox(Size{Width: 1, Height: 1})
	first := NewFrame()
	second := NewScrollContainer(Vertical)

	require.NoError(t, first.SetChild(content))
	assert.ErrorIs(t, second.SetChild(content), ErrAlreadyAttached)
	assert.Same(t, first, content.Parent())

	assert.True(t, Detach(content))
	assert.Nil(t, content.Parent())
	assert.Nil(t, first.Child())
	assert.False(t, Detach(content))

	require.NoError(t, second.SetChild(content))
	assert.Same(t, second, content.Parent())
}

func TestSetChild_Nil(t *testing.T) {
	assert.ErrorIs(t, NewFrame().SetChild(nil), ErrNilChild)
}

func TestLayoutObserver_FiresEveryPassAndRemoves(t *testing.T) {
	box := NewBox(Size{Width: 10, Height: 10})
	var calls int
	var last Rect
	obs := box.AddOnLayoutChange(func(v View, frame, old Rect) {
		calls++
		last = frame
		assert.Same(t, box, v)
	})

	LayoutRoot(box, UnboundedConstraints())
	LayoutRoot(box, UnboundedConstraints())
	assert.Equal(t, 2, calls)
	assert.Equal(t, RectFromLTWH(0, 0, 10, 10), last)
	assert.Equal(t, 1, box.ObserverCount())

	obs.Remove()
	obs.Remove()
	assert.True(t, obs.IsRemoved())
	assert.Equal(t, 0, box.ObserverCount())

	LayoutRoot(box, UnboundedConstraints())
	assert.Equal(t, 2, calls)
}

func TestRequestLayout_ReachesRootHandler(t *testing.T) {
	content := NewBox(Size{Width: 10, Height: 10})
	inner := NewScrollContainer(Vertical)
	outer := NewScrollContainer(Horizontal)
	require.NoError(t, inner.SetChild(content))
	require.NoError(t, outer.SetChild(inner))

	var requests int
	outer.SetRelayoutHandler(func() { requests++ })

	content.SetIntrinsicSize(Size{Width: 20, Height: 10})
	content.SetIntrinsicSize(Size{Width: 20, Height: 10})
	assert.Equal(t, 1, requests, "unchanged intrinsic size does not request layout")
}
