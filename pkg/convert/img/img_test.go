package img

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTextImage(t *testing.T) {
	for name, text := range map[string]string{
		"short":    "Hello",
		"empty":    "",
		"overflow": strings.Repeat("A very long line that will never fit on the canvas. ", 20),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := RenderTextImage(text)
			require.NoError(t, err)

			decoded, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)

			assert.Equal(t, TextImageWidth, decoded.Bounds().Dx())
			assert.Equal(t, TextImageHeight, decoded.Bounds().Dy())

			r, g, b, _ := decoded.At(0, 0).RGBA()
			assert.Equal(t, [3]uint32{0xf0f0, 0xf0f0, 0xf0f0}, [3]uint32{r, g, b})
		})
	}
}

func TestRenderTextImageDrawsNearCenter(t *testing.T) {
	data, err := RenderTextImage("Hello")
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	dark := false
	for x := TextImageWidth/2 - 60; x < TextImageWidth/2+60 && !dark; x++ {
		for y := TextImageHeight/2 - TextFontSize; y < TextImageHeight/2; y++ {
			if r, _, _, _ := decoded.At(x, y).RGBA(); r < 0x4000 {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark, "expected glyph pixels above the center baseline")
}

func noisePNG(t *testing.T, size int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	src := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			src.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	return buf.Bytes()
}

func TestFitForUpload(t *testing.T) {
	t.Run("small images pass through", func(t *testing.T) {
		data := noisePNG(t, 16)

		out, mime, err := FitForUpload(data, MaxUploadBytes)
		require.NoError(t, err)
		assert.Equal(t, data, out)
		assert.Equal(t, "image/png", mime)
	})

	t.Run("large images are downscaled", func(t *testing.T) {
		data := noisePNG(t, 256)
		limit := 50_000
		require.Greater(t, len(data), limit)

		out, mime, err := FitForUpload(data, limit)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", mime)
		assert.LessOrEqual(t, len(out), limit)

		decoded, _, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Less(t, decoded.Bounds().Dx(), 256)
	})

	t.Run("undecodable", func(t *testing.T) {
		_, _, err := FitForUpload(bytes.Repeat([]byte("x"), 100), 10)
		assert.Error(t, err)
	})
}
