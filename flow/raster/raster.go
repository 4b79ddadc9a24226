// Package raster paints footnote bands onto an in-memory image so layout
// could be eyeballed.
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"fnflow/flow"
)

// Surface implements flow.Surface over image.RGBA. Page coordinates
// (millimeters) are converted to pixels by multiplying by scale after
// subtracting origin.
type Surface struct {
	img    *image.RGBA
	scale  float64
	origin flow.Point
	ink    color.Color
	face   font.Face
}

var _ flow.Surface = (*Surface)(nil)

// New creates white surface covering page area b.
func New(b flow.Bounds, scale float64) *Surface {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(b.Width() * scale))
	h := int(math.Ceil(b.Height() * scale))
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &Surface{
		img:    img,
		scale:  scale,
		origin: flow.Point{X: b.Left, Y: b.Top},
		ink:    color.Black,
		face:   basicfont.Face7x13,
	}
}

func (s *Surface) Image() *image.RGBA {
	return s.img
}

func (s *Surface) px(x, y float64) image.Point {
	return image.Point{
		X: int(math.Round((x - s.origin.X) * s.scale)),
		Y: int(math.Round((y - s.origin.Y) * s.scale)),
	}
}

func (s *Surface) FillRect(b flow.Bounds, c color.Color) {
	r := image.Rectangle{Min: s.px(b.Left, b.Top), Max: s.px(b.Right, b.Bottom)}.Canon()
	if r.Dx() == 0 {
		r.Max.X++
	}
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func (s *Surface) HLine(x0, x1, y float64) {
	p0, p1 := s.px(x0, y), s.px(x1, y)
	if p0.X > p1.X {
		p0, p1 = p1, p0
	}
	for x := p0.X; x <= p1.X; x++ {
		s.img.Set(x, p0.Y, s.ink)
	}
}

func (s *Surface) DrawText(x, baseline float64, text string) {
	p := s.px(x, baseline)
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(s.ink),
		Face: s.face,
		Dot:  fixed.P(p.X, p.Y),
	}
	d.DrawString(text)
}

// EncodePNG writes surface content.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}
