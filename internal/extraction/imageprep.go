package extraction

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"ledgerlens/internal/domain"
)

// DownscaleImage shrinks a JPEG or PNG so its longest edge is at most maxDim
// and re-encodes it in the same format. Other inputs, images that already fit,
// and maxDim <= 0 return the input unchanged.
func DownscaleImage(data []byte, mimeType string, maxDim int) ([]byte, error) {
	var format imaging.Format
	switch mimeType {
	case domain.MimeJPEG:
		format = imaging.JPEG
	case domain.MimePNG:
		format = imaging.PNG
	default:
		return data, nil
	}
	if maxDim <= 0 {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return data, nil
	}

	if width > height {
		img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	} else {
		img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}
