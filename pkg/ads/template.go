package ads

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"

	"github.com/go-drift/mobileads/pkg/view"
)

// TemplateSize selects one of the built-in native ad layouts.
type TemplateSize string

const (
	TemplateSmall  TemplateSize = "small"
	TemplateMedium TemplateSize = "medium"
)

// ParseTemplateSize parses "small" or "medium".
func ParseTemplateSize(s string) (TemplateSize, error) {
	switch TemplateSize(strings.ToLower(s)) {
	case TemplateSmall:
		return TemplateSmall, nil
	case TemplateMedium:
		return TemplateMedium, nil
	default:
		return "", fmt.Errorf("%w: template size %q", ErrInvalidOptions, s)
	}
}

// Color is a packed 0xAARRGGBB color, as sent over the channel.
type Color uint32

// NRGBA converts c to an image color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		A: uint8(c >> 24),
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
	}
}

// ParseColor parses "#RRGGBB" or "#AARRGGBB". Six-digit colors are opaque.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: color %q", ErrInvalidOptions, s)
	}
	switch len(hex) {
	case 6:
		return Color(0xFF000000 | uint32(v)), nil
	case 8:
		return Color(uint32(v)), nil
	default:
		return 0, fmt.Errorf("%w: color %q", ErrInvalidOptions, s)
	}
}

// TextStyle styles one text element of a template. Zero fields keep the
// template default.
type TextStyle struct {
	FontFamily string
	Color      Color
	FontSize   float64
}

// TemplateStyle customizes a template layout.
type TemplateStyle struct {
	Size                        TemplateSize
	CallToActionTextStyle       TextStyle
	CallToActionBackgroundColor Color
	MainBackgroundColor         Color
}

// DefaultTemplateStyle returns the medium template with a blue call to
// action.
func DefaultTemplateStyle() TemplateStyle {
	return TemplateStyle{
		Size:                        TemplateMedium,
		CallToActionTextStyle:       TextStyle{Color: 0xFFFFFFFF},
		CallToActionBackgroundColor: 0xFF1A73E8,
		MainBackgroundColor:         0xFFFFFFFF,
	}
}

// Validate reports an unknown template size.
func (s TemplateStyle) Validate() error {
	if _, err := ParseTemplateSize(string(s.Size)); err != nil {
		return err
	}
	if s.CallToActionTextStyle.FontSize < 0 {
		return fmt.Errorf("%w: negative font size", ErrInvalidOptions)
	}
	return nil
}

// NativeAdAssets are the loaded assets of a native ad.
type NativeAdAssets struct {
	Headline     string
	Body         string
	CallToAction string
	Advertiser   string
	StarRating   float64
}

const (
	templatePadding   = 8
	templateCTAHeight = 32
	templateMediaSide = 120
	smallMinWidth     = 280
	mediumMinWidth    = 320
)

// TemplateSurface renders native ad assets with a built-in layout. Its
// intrinsic size follows its content, so it is the typical content of an
// auto-sizing view.
type TemplateSurface struct {
	view.Base
	mu        sync.Mutex
	style     TemplateStyle
	assets    NativeAdAssets
	destroyed atomic.Bool
}

var _ Surface = (*TemplateSurface)(nil)

// NewTemplateSurface creates a surface for assets laid out as style.
func NewTemplateSurface(style TemplateStyle, assets NativeAdAssets) *TemplateSurface {
	if style.Size == "" {
		style.Size = TemplateMedium
	}
	t := &TemplateSurface{style: style, assets: assets}
	t.SetSelf(t)
	return t
}

// Style returns the template style.
func (t *TemplateSurface) Style() TemplateStyle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.style
}

// Assets returns the displayed assets.
func (t *TemplateSurface) Assets() NativeAdAssets {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.assets
}

// SetAssets replaces the displayed assets and requests a layout pass.
func (t *TemplateSurface) SetAssets(assets NativeAdAssets) {
	t.mu.Lock()
	t.assets = assets
	t.mu.Unlock()
	t.RequestLayout()
}

// lines returns the text lines in display order.
func (t *TemplateSurface) lines() []string {
	a := t.assets
	var out []string
	if a.Headline != "" {
		out = append(out, a.Headline)
	}
	if a.Advertiser != "" {
		out = append(out, a.Advertiser)
	}
	if a.StarRating > 0 {
		out = append(out, fmt.Sprintf("%.1f stars", a.StarRating))
	}
	if t.style.Size == TemplateMedium && a.Body != "" {
		out = append(out, a.Body)
	}
	return out
}

// IntrinsicSize implements view.IntrinsicSizer.
func (t *TemplateSurface) IntrinsicSize() view.Size {
	t.mu.Lock()
	defer t.mu.Unlock()

	lines := t.lines()
	width := 0
	for _, l := range lines {
		width = max(width, textWidth(l))
	}
	width = max(width, textWidth(t.assets.CallToAction)+2*templatePadding)
	height := len(lines)*lineHeight() + templateCTAHeight + 2*templatePadding

	minWidth := smallMinWidth
	if t.style.Size == TemplateMedium {
		minWidth = mediumMinWidth
		height += templateMediaSide + templatePadding
	}
	return view.Size{
		Width:  max(width+2*templatePadding, minWidth),
		Height: height,
	}
}

// Measure implements view.View.
func (t *TemplateSurface) Measure(c view.Constraints) view.Size {
	size := c.Constrain(t.IntrinsicSize())
	t.SetMeasuredSize(size)
	return size
}

// Layout implements view.View.
func (t *TemplateSurface) Layout(frame view.Rect) {
	t.CommitLayout(frame)
}

// Destroy marks the surface released. Safe to call more than once.
func (t *TemplateSurface) Destroy() {
	t.destroyed.Store(true)
}

// IsDestroyed reports whether Destroy has been called.
func (t *TemplateSurface) IsDestroyed() bool {
	return t.destroyed.Load()
}

// Render rasterizes the template at its intrinsic size.
func (t *TemplateSurface) Render() *image.RGBA {
	size := t.IntrinsicSize()
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))

	t.mu.Lock()
	style := t.style
	lines := t.lines()
	cta := t.assets.CallToAction
	t.mu.Unlock()

	bg := style.MainBackgroundColor
	if bg == 0 {
		bg = 0xFFFFFFFF
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg.NRGBA()), image.Point{}, draw.Src)

	y := templatePadding
	if style.Size == TemplateMedium {
		media := image.Rect(templatePadding, y, size.Width-templatePadding, y+templateMediaSide)
		draw.Draw(img, media, image.NewUniform(colornames.Lightgray), image.Point{}, draw.Src)
		y += templateMediaSide + templatePadding
	}
	for _, l := range lines {
		drawText(img, templatePadding, y, l, colornames.Black)
		y += lineHeight()
	}

	ctaBg := style.CallToActionBackgroundColor
	if ctaBg == 0 {
		ctaBg = DefaultTemplateStyle().CallToActionBackgroundColor
	}
	button := image.Rect(templatePadding, y, size.Width-templatePadding, y+templateCTAHeight)
	draw.Draw(img, button, image.NewUniform(ctaBg.NRGBA()), image.Point{}, draw.Src)

	var fg color.Color = colornames.White
	if c := style.CallToActionTextStyle.Color; c != 0 {
		fg = c.NRGBA()
	}
	tx := button.Min.X + (button.Dx()-textWidth(cta))/2
	ty := button.Min.Y + (button.Dy()-lineHeight())/2
	drawText(img, tx, ty, cta, fg)
	return img
}
