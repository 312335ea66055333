package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

// TesseractClient runs local OCR and reports word boxes alongside the text.
type TesseractClient struct {
	dataPath string
	language string
	log      *logrus.Logger
}

func NewTesseractClient(dataPath string, log *logrus.Logger) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
		language: "eng",
		log:      log,
	}
}

func (tc *TesseractClient) Name() string { return "tesseract" }

// Recognize extracts text and word tokens from an encoded image.
func (tc *TesseractClient) Recognize(ctx context.Context, image []byte) (*dto.OCRPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		client.SetTessdataPrefix(tc.dataPath)
	}

	// Set language to English
	if err := client.SetLanguage(tc.language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	// Scorecards are grids of short fields, not paragraphs
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	payload := &dto.OCRPayload{Text: text, Provider: tc.Name()}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Text alone still goes through the line interpreter
		tc.log.WithError(err).Warn("Tesseract word boxes unavailable, returning text only")
		return payload, nil
	}
	payload.Tokens = wordTokens(boxes)

	tc.log.WithFields(logrus.Fields{
		"component": "tesseract",
		"chars":     len(text),
		"tokens":    len(payload.Tokens),
	}).Debug("Tesseract recognition finished")

	return payload, nil
}

// wordTokens converts word rectangles into four-corner tokens.
func wordTokens(boxes []gosseract.BoundingBox) []dto.Token {
	tokens := make([]dto.Token, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		tok := dto.RectToken(word, box.Box.Min.X, box.Box.Min.Y, box.Box.Max.X, box.Box.Max.Y)
		tok.Confidence = box.Confidence / 100.0
		tokens = append(tokens, tok)
	}
	return tokens
}
