package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor normalizes uploaded images.
type ImageProcessor struct{}

// NewImageProcessor creates a new ImageProcessor.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// Normalize decodes the source image, scales it down to fit within the
// maxWidth x maxHeight bounding box, and re-encodes it as JPEG.
func (p *ImageProcessor) Normalize(content io.Reader, maxWidth, maxHeight int) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	fitted := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, fitted, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf, nil
}
