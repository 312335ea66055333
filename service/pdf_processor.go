package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

// pdfScale maps PDF points onto a pixel-like grid so the row tolerance used
// for photos also fits digital cards.
const pdfScale = 4.0

const defaultPageHeight = 842.0 // A4 in points

type PDFProcessor interface {
	ExtractTokens(pdfData []byte) (*dto.OCRPayload, error)
	ExtractImages(pdfData []byte) ([]image.Image, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractTokens reads the embedded text layer. Tokens are placed in a
// top-down frame with pages stacked one below the other.
func (p *pdfProcessor) ExtractTokens(pdfData []byte) (*dto.OCRPayload, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	out := &dto.OCRPayload{Provider: "pdf"}
	var textBuilder strings.Builder
	offset := 0.0

	totalPage := r.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		height := pageHeight(page)

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read text on page %d: %w", pageIndex, err)
		}
		for _, row := range rows {
			words := mergeFragments(row.Content)
			for i, w := range words {
				if i > 0 {
					textBuilder.WriteString(" ")
				}
				textBuilder.WriteString(w.S)

				top := offset + height - w.Y - w.FontSize
				out.Tokens = append(out.Tokens, dto.RectToken(w.S,
					scaled(w.X), scaled(top), scaled(w.X+w.W), scaled(top+w.FontSize)))
			}
			textBuilder.WriteString("\n")
		}
		offset += height
	}

	out.Text = textBuilder.String()
	return out, nil
}

// mergeFragments joins glyph runs the text layer splits mid-word. A gap
// wider than a quarter of the font size starts a new word.
func mergeFragments(content pdf.TextHorizontal) []pdf.Text {
	var words []pdf.Text
	for _, t := range content {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		if n := len(words); n > 0 {
			last := &words[n-1]
			gap := t.X - (last.X + last.W)
			if gap < last.FontSize*0.25 && !strings.HasPrefix(t.S, " ") {
				last.S += t.S
				last.W = t.X + t.W - last.X
				continue
			}
		}
		t.S = strings.TrimSpace(t.S)
		words = append(words, t)
	}
	return words
}

func pageHeight(page pdf.Page) float64 {
	box := page.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() < 4 {
		return defaultPageHeight
	}
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if h <= 0 {
		return defaultPageHeight
	}
	return h
}

func scaled(v float64) int {
	return int(math.Round(v * pdfScale))
}

// ExtractImages pulls embedded page images out of a scanned PDF.
func (p *pdfProcessor) ExtractImages(pdfData []byte) ([]image.Image, error) {
	// Create a temporary directory for extraction
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "scorecard-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()

	// nil selects every page
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images []image.Image
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		imgFile, err := os.Open(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	return images, nil
}
