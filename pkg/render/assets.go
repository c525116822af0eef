package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/tickerlive/newscast/pkg/config"
)

// AssetError marks a missing or unreadable startup asset.
// These are fatal, the app must not proceed to streaming.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string { return fmt.Sprintf("asset %v: %v", e.Path, e.Err) }
func (e *AssetError) Unwrap() error { return e.Err }

// LoadBaseFrame builds the static studio scene: the background scaled to
// the output resolution with the presenter overlay pasted on top.
// Rebuilt only on restart.
func LoadBaseFrame(conf config.Assets, video config.Video) (*image.RGBA, error) {
	bg, err := decode(conf.Background)
	if err != nil {
		return nil, err
	}
	base := image.NewRGBA(image.Rect(0, 0, video.Width, video.Height))
	xdraw.CatmullRom.Scale(base, base.Bounds(), bg, bg.Bounds(), xdraw.Src, nil)

	overlay, err := decode(conf.Overlay)
	if err != nil {
		return nil, err
	}
	ob := overlay.Bounds()
	w, h := ob.Dx(), ob.Dy()
	if w > conf.OverlayMaxWidth {
		h = h * conf.OverlayMaxWidth / w
		w = conf.OverlayMaxWidth
	}
	dst := image.Rect(conf.OverlayX, conf.OverlayY, conf.OverlayX+w, conf.OverlayY+h)
	xdraw.CatmullRom.Scale(base, dst, overlay, ob, xdraw.Over, nil)

	return base, nil
}

// LoadFace parses a TTF/OTF file into a font face of the given size.
func LoadFace(path string, size float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	f, err := opentype.Parse(raw)
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	return face, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	return img, nil
}
