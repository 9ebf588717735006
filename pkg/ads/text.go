package ads

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textFace is the bitmap face used for diagnostic and template text.
var textFace font.Face = basicfont.Face7x13

func textWidth(s string) int {
	return font.MeasureString(textFace, s).Ceil()
}

func lineHeight() int {
	return textFace.Metrics().Height.Ceil()
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: textFace,
		Dot:  fixed.P(x, y+textFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
