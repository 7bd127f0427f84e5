package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Surface is a request-scoped drawing target. Every chart acquires its
// own Surface, draws, encodes, and lets it go out of scope; surfaces are
// never shared between requests or charts.
type Surface struct {
	img *image.RGBA
}

// NewSurface returns a white surface of the given pixel size.
func NewSurface(width, height int) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return &Surface{img: img}
}

// FillRect fills the rectangle [x0,y0)-(x1,y1) with a solid color.
func (s *Surface) FillRect(x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(s.img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawImage blits src with its top-left corner at (x, y).
func (s *Surface) DrawImage(x, y int, src image.Image) {
	bounds := src.Bounds()
	target := image.Rect(x, y, x+bounds.Dx(), y+bounds.Dy())
	draw.Draw(s.img, target, src, bounds.Min, draw.Src)
}

// Text draws a string with its baseline starting at (x, y).
func (s *Surface) Text(x, y int, c color.Color, text string) {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// TextWidth measures the pixel width of a string in the surface font.
func (s *Surface) TextWidth(text string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(text).Ceil()
}

// EncodePNG serializes the surface to PNG bytes.
func (s *Surface) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes as a self-contained embeddable image string.
func DataURI(pngBytes []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

// truncate shortens a label to fit small chart cells.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
