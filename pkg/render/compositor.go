package render

import (
	"image"
	"image/draw"

	"github.com/tickerlive/newscast/pkg/ticker"
)

// Compositor produces raw RGB24 frames: the base scene with a W-wide
// window of the ticker strip over the bottom band. The base and the
// strip are read-only; the scratch frame and the output buffer are
// reused between calls, so one Compositor serves one producer.
type Compositor struct {
	base  *image.RGBA
	strip *ticker.Strip

	w, h  int
	bandY int

	frame *image.RGBA
	out   []byte
}

func NewCompositor(base *image.RGBA, strip *ticker.Strip) *Compositor {
	b := base.Bounds()
	w, h := b.Dx(), b.Dy()
	c := &Compositor{
		base:  base,
		strip: strip,
		w:     w,
		h:     h,
		bandY: h - strip.Height,
		frame: image.NewRGBA(image.Rect(0, 0, w, h)),
		out:   make([]byte, w*h*3),
	}
	copy(c.frame.Pix, base.Pix)
	return c
}

// Composite renders the frame for the given scroll offset and returns
// its packed interleaved RGB24 bytes. The returned slice is valid until
// the next call.
//
// The window wraps at the strip's right edge and keeps tiling through
// the strip for as long as needed, so widths beyond one or even several
// strip periods come out without gaps or overlaps.
func (c *Compositor) Composite(offset int) []byte {
	offset %= c.strip.Width
	if offset < 0 {
		offset += c.strip.Width
	}

	// only the band rows ever change, restore them from the base
	start := c.frame.PixOffset(0, c.bandY)
	copy(c.frame.Pix[start:], c.base.Pix[start:])

	dstX, srcX, remaining := 0, offset, c.w
	for remaining > 0 {
		n := c.strip.Width - srcX
		if n > remaining {
			n = remaining
		}
		r := image.Rect(dstX, c.bandY, dstX+n, c.bandY+c.strip.Height)
		draw.Draw(c.frame, r, c.strip.RGBA, image.Pt(srcX, 0), draw.Over)
		dstX += n
		remaining -= n
		srcX = 0
	}

	return c.pack()
}

// pack drops the alpha channel, the encoder wants rgb24.
func (c *Compositor) pack() []byte {
	j := 0
	for i := 0; i < len(c.frame.Pix); i += 4 {
		c.out[j] = c.frame.Pix[i]
		c.out[j+1] = c.frame.Pix[i+1]
		c.out[j+2] = c.frame.Pix[i+2]
		j += 3
	}
	return c.out
}
