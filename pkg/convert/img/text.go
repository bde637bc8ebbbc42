package img

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/sunshineplan/imgconv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	TextImageWidth  = 1024
	TextImageHeight = 512
	TextFontSize    = 32
)

var (
	textBackground = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	textForeground = color.Black

	regular = mustParseFont(goregular.TTF)
)

func mustParseFont(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("parse embedded font: %v", err))
	}
	return f
}

// RenderTextImage draws text centered on a fixed-size flat canvas and returns it as PNG.
// The canvas size never changes; long text runs off the edges.
func RenderTextImage(text string) ([]byte, error) {
	// Faces keep glyph caches and are not safe to share between goroutines.
	face, err := opentype.NewFace(regular, &opentype.FaceOptions{
		Size:    TextFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating font face: %v", err)
	}
	defer face.Close()

	canvas := image.NewRGBA(image.Rect(0, 0, TextImageWidth, TextImageHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(textBackground), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(textForeground),
		Face: face,
	}

	// Horizontally centered, baseline on the vertical midline.
	advance := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: fixed.I(TextImageWidth/2) - advance/2,
		Y: fixed.I(TextImageHeight / 2),
	}
	d.DrawString(text)

	var buf bytes.Buffer
	if err := imgconv.Write(&buf, canvas, &imgconv.FormatOption{Format: imgconv.PNG}); err != nil {
		return nil, fmt.Errorf("error encoding PNG: %v", err)
	}

	return buf.Bytes(), nil
}
