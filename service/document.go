package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/Aashish23092/scorecard-ocr/client"
	"github.com/Aashish23092/scorecard-ocr/dto"
)

// minTextLayerChars is the smallest embedded text layer trusted over OCR.
const minTextLayerChars = 20

// minOCRChars is the shortest provider output accepted before falling back
// to the next provider.
const minOCRChars = 5

// OCRProvider recognizes text in an encoded image.
type OCRProvider interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (*dto.OCRPayload, error)
}

// FallbackOCR tries providers in order, moving on when one fails or
// returns too little text.
type FallbackOCR struct {
	providers []OCRProvider
	log       *logrus.Logger
}

func NewFallbackOCR(log *logrus.Logger, providers ...OCRProvider) *FallbackOCR {
	return &FallbackOCR{providers: providers, log: log}
}

func (f *FallbackOCR) Name() string { return "auto" }

func (f *FallbackOCR) Recognize(ctx context.Context, image []byte) (*dto.OCRPayload, error) {
	var (
		best    *dto.OCRPayload
		lastErr error
	)
	for _, p := range f.providers {
		payload, err := p.Recognize(ctx, image)
		if err != nil {
			f.log.WithFields(logrus.Fields{
				"component": "ocr",
				"provider":  p.Name(),
			}).WithError(err).Warn("OCR provider failed, trying next")
			lastErr = err
			continue
		}
		if countText(payload.Text) >= minOCRChars {
			return payload, nil
		}
		f.log.WithFields(logrus.Fields{
			"component": "ocr",
			"provider":  p.Name(),
			"chars":     countText(payload.Text),
		}).Info("OCR provider returned insufficient text, trying next")
		if best == nil || countText(payload.Text) > countText(best.Text) {
			best = payload
		}
	}

	if best != nil {
		return best, nil
	}
	if lastErr == nil {
		return nil, fmt.Errorf("%w: no provider configured", dto.ErrOCRUnavailable)
	}
	return nil, fmt.Errorf("%w: all providers failed (%s): %v", dto.ErrOCRUnavailable, providerNames(f.providers), lastErr)
}

// Document is an uploaded scorecard turned into OCR output.
type Document struct {
	Payload *dto.OCRPayload
	// QRLabel is the team label read from a QR sticker, if any.
	QRLabel string
	Source  string
}

// DocumentReader routes uploads: PDFs with a usable text layer are read
// directly, everything else goes through image clean-up and OCR.
type DocumentReader struct {
	ocr        OCRProvider
	pdf        PDFProcessor
	preprocess client.PreprocessOptions
	metrics    *Metrics
	log        *logrus.Logger
}

func NewDocumentReader(ocr OCRProvider, pdf PDFProcessor, preprocess client.PreprocessOptions, metrics *Metrics, log *logrus.Logger) *DocumentReader {
	return &DocumentReader{
		ocr:        ocr,
		pdf:        pdf,
		preprocess: preprocess,
		metrics:    metrics,
		log:        log,
	}
}

func (d *DocumentReader) Read(ctx context.Context, filename string, data []byte) (*Document, error) {
	started := time.Now()

	if dto.IsPDF(filename) {
		doc, err := d.readPDF(ctx, filename, data)
		if doc != nil {
			d.metrics.observeRead(doc.Source, started)
		}
		return doc, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	doc, err := d.readImage(ctx, img, data)
	if doc != nil {
		d.metrics.observeRead(doc.Source, started)
	}
	return doc, err
}

func (d *DocumentReader) readPDF(ctx context.Context, filename string, data []byte) (*Document, error) {
	payload, err := d.pdf.ExtractTokens(data)
	if err != nil {
		d.log.WithField("filename", filename).WithError(err).Warn("PDF text layer unreadable, falling back to page images")
	} else if countText(payload.Text) >= minTextLayerChars {
		return &Document{Payload: payload, Source: "pdf_text"}, nil
	}

	images, err := d.pdf.ExtractImages(data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("PDF has no text layer or page images: %w", dto.ErrNoTextExtracted)
	}

	// A scorecard is a single page; the first image is the card
	var buf bytes.Buffer
	if err := png.Encode(&buf, images[0]); err != nil {
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}
	return d.readImage(ctx, images[0], buf.Bytes())
}

func (d *DocumentReader) readImage(ctx context.Context, img image.Image, data []byte) (*Document, error) {
	doc := &Document{Source: "ocr"}

	if label, err := DecodeTeamQR(img); err == nil {
		doc.QRLabel = label
	} else {
		d.log.WithError(err).Debug("No team QR code on scorecard")
	}

	cleaned, err := client.Preprocess(data, d.preprocess)
	if err != nil {
		return nil, fmt.Errorf("failed to preprocess image: %w", err)
	}

	payload, err := d.ocr.Recognize(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("OCR extraction failed: %w", err)
	}
	doc.Payload = payload
	return doc, nil
}

func countText(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func providerNames(providers []OCRProvider) string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	return strings.Join(names, ",")
}
