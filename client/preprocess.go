package client

import (
	"bytes"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// PreprocessOptions tunes image clean-up before OCR.
type PreprocessOptions struct {
	// MinWidth upscales narrow photos; small digits in score boxes are
	// otherwise lost.
	MinWidth int
	// Binarize applies a fixed threshold after contrast adjustment.
	Binarize  bool
	Threshold uint8
}

func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{MinWidth: 1600, Threshold: 140}
}

// Preprocess decodes a photo, corrects its orientation and returns a
// grayscale, contrast-boosted PNG ready for OCR.
func Preprocess(data []byte, opts PreprocessOptions) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if opts.MinWidth > 0 && img.Bounds().Dx() < opts.MinWidth {
		img = imaging.Resize(img, opts.MinWidth, 0, imaging.Lanczos)
	}

	var out image.Image = imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 20)
	out = imaging.Sharpen(out, 1.0)

	if opts.Binarize {
		out = segment.Threshold(out, opts.Threshold)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
