package ticker

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// the band is painted breaking-news red with white text
var (
	DefaultBG = color.RGBA{R: 200, A: 0xff}
	DefaultFG = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// small upward shift of the baseline to account for font overshoot
const vBias = 2

var ErrEmptyText = errors.New("ticker: empty text")

// Strip is a horizontally-tileable bitmap with the ticker text drawn
// twice, separated by a fixed gap. A window of any width slid across it
// with wraparound at Width produces continuous scroll motion.
// Immutable once built.
type Strip struct {
	RGBA   *image.RGBA
	Width  int
	Height int
}

// Builder renders display-ready text into ticker strips.
// The text is drawn as given, the builder never reorders characters.
type Builder struct {
	face   font.Face
	height int
	gap    int
	bg, fg color.RGBA
}

func NewBuilder(face font.Face, height, gap int) *Builder {
	return &Builder{face: face, height: height, gap: gap, bg: DefaultBG, fg: DefaultFG}
}

// Build measures the text and renders it twice onto a fresh strip.
// Pure function of its inputs.
func (b *Builder) Build(text string) (*Strip, error) {
	textW := font.MeasureString(b.face, text).Ceil()
	if textW == 0 {
		return nil, ErrEmptyText
	}
	metrics := b.face.Metrics()
	textH := (metrics.Ascent + metrics.Descent).Ceil()

	stripW := textW + b.gap + textW
	img := image.NewRGBA(image.Rect(0, 0, stripW, b.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(b.bg), image.Point{}, draw.Src)

	y := (b.height-textH)/2 - vBias
	baseline := y + metrics.Ascent.Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(b.fg),
		Face: b.face,
		Dot:  fixed.P(0, baseline),
	}
	d.DrawString(text)
	d.Dot = fixed.P(textW+b.gap, baseline)
	d.DrawString(text)

	return &Strip{RGBA: img, Width: stripW, Height: b.height}, nil
}
