package img

import (
	"bytes"
	"fmt"
	"math"
	"net/http"

	"github.com/sunshineplan/imgconv"
)

// MaxUploadBytes is the platform's size limit for still images.
const MaxUploadBytes = 5 * 1024 * 1024

// FitForUpload returns imageData unchanged, with its sniffed MIME type, when it is
// within maxBytes. Larger images are downscaled and re-encoded as JPEG until they fit.
func FitForUpload(imageData []byte, maxBytes int) ([]byte, string, error) {
	if len(imageData) <= maxBytes {
		return imageData, http.DetectContentType(imageData), nil
	}

	src, err := imgconv.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, "", fmt.Errorf("error decoding image: %v", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	size := len(imageData)

	for attempt := 0; attempt < 4; attempt++ {
		// Byte size scales roughly with area, so shrink each side by the square root.
		ratio := math.Sqrt(float64(maxBytes)/float64(size)) * 0.9
		width = int(float64(width) * ratio)
		height = int(float64(height) * ratio)
		if width < 1 || height < 1 {
			break
		}

		resized := imgconv.Resize(src, &imgconv.ResizeOption{
			Width:  width,
			Height: height,
		})

		var buf bytes.Buffer
		if err := imgconv.Write(&buf, resized, &imgconv.FormatOption{Format: imgconv.JPEG}); err != nil {
			return nil, "", fmt.Errorf("error encoding JPEG: %v", err)
		}

		if buf.Len() <= maxBytes {
			return buf.Bytes(), "image/jpeg", nil
		}
		size = buf.Len()
	}

	return nil, "", fmt.Errorf("image of %d bytes could not be reduced below %d bytes", len(imageData), maxBytes)
}
