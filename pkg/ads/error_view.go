package ads

import (
	"fmt"
	"image"
	"sync/atomic"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"

	"github.com/go-drift/mobileads/pkg/view"
)

const errorViewPadding = 8

// ErrorView stands in for an ad that could not be shown.
//
// In diagnostic mode it is a text view naming the handle and the reason. In
// production mode it is empty and has no size.
type ErrorView struct {
	id         int
	hasHandle  bool
	err        error
	message    string
	diagnostic bool
	root       *view.Box
	disposed   atomic.Bool
}

func newErrorView(handle int, err error, diagnostic bool) *ErrorView {
	return buildErrorView(handle, true, err, diagnostic)
}

// newRequestErrorView is the error view for a request whose handle could
// not be read. It is labelled with the host's view ID.
func newRequestErrorView(viewID int, err error, diagnostic bool) *ErrorView {
	return buildErrorView(viewID, false, err, diagnostic)
}

func buildErrorView(id int, hasHandle bool, err error, diagnostic bool) *ErrorView {
	ev := &ErrorView{id: id, hasHandle: hasHandle, err: err, diagnostic: diagnostic}
	if !diagnostic {
		ev.root = view.NewBox(view.Size{})
		return ev
	}
	if hasHandle {
		ev.message = fmt.Sprintf("ad handle %d not found or disposed: %v", id, err)
	} else {
		ev.message = fmt.Sprintf("view %d: malformed creation request: %v", id, err)
	}
	ev.root = view.NewBox(view.Size{
		Width:  textWidth(ev.message) + 2*errorViewPadding,
		Height: lineHeight() + 2*errorViewPadding,
	})
	return ev
}

// View returns the error view's root, or nil once disposed.
func (ev *ErrorView) View() view.View {
	if ev.disposed.Load() {
		return nil
	}
	return ev.root
}

// Dispose implements platform.PlatformView. There is nothing to release.
func (ev *ErrorView) Dispose() {
	ev.disposed.Store(true)
}

// ID returns the handle (or view ID when no handle could be parsed) the
// error view was created for.
func (ev *ErrorView) ID() int {
	return ev.id
}

// HasHandle reports whether ID is an ad handle rather than a view ID.
func (ev *ErrorView) HasHandle() bool {
	return ev.hasHandle
}

// Err returns the reason the ad could not be shown.
func (ev *ErrorView) Err() error {
	return ev.err
}

// Diagnostic reports whether the view renders its message.
func (ev *ErrorView) Diagnostic() bool {
	return ev.diagnostic
}

// Text returns the rendered message, or "" in production mode.
func (ev *ErrorView) Text() string {
	return ev.message
}

// Render rasterizes the view at its intrinsic size: yellow text on red in
// diagnostic mode, an empty image otherwise.
func (ev *ErrorView) Render() *image.RGBA {
	size := ev.root.IntrinsicSize()
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	if !ev.diagnostic {
		return img
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(colornames.Red), image.Point{}, draw.Src)
	drawText(img, errorViewPadding, errorViewPadding, ev.message, colornames.Yellow)
	return img
}
