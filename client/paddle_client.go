package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

// PaddleClient calls a PaddleOCR serving endpoint over HTTP.
type PaddleClient struct {
	apiURL     string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewPaddleClient(apiURL string, timeout time.Duration, log *logrus.Logger) *PaddleClient {
	return &PaddleClient{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (p *PaddleClient) Name() string { return "paddle" }

type paddleRequest struct {
	Images []string `json:"images"`
}

type paddleResponse struct {
	Results [][]struct {
		Text       string   `json:"text"`
		Confidence float64  `json:"confidence"`
		TextRegion [][2]int `json:"text_region"`
	} `json:"results"`
}

// Recognize sends the image and converts each detected text line into a
// token whose corners are the returned text region.
func (p *PaddleClient) Recognize(ctx context.Context, image []byte) (*dto.OCRPayload, error) {
	payloadBytes, err := json.Marshal(paddleRequest{
		Images: []string{base64.StdEncoding.EncodeToString(image)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to build PaddleOCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}

	out := &dto.OCRPayload{Provider: p.Name()}
	var textBuilder strings.Builder
	if len(result.Results) > 0 {
		for _, line := range result.Results[0] {
			textBuilder.WriteString(line.Text)
			textBuilder.WriteString("\n")

			if len(line.TextRegion) != 4 || strings.TrimSpace(line.Text) == "" {
				continue
			}
			tok := dto.Token{Text: line.Text, Confidence: line.Confidence}
			for i, pt := range line.TextRegion {
				tok.Bounds[i] = dto.Vertex{X: pt[0], Y: pt[1]}
			}
			out.Tokens = append(out.Tokens, tok)
		}
	}
	out.Text = textBuilder.String()

	if strings.TrimSpace(out.Text) == "" {
		return nil, fmt.Errorf("PaddleOCR: %w", dto.ErrNoTextExtracted)
	}

	p.log.WithFields(logrus.Fields{
		"component": "paddle",
		"chars":     len(out.Text),
		"tokens":    len(out.Tokens),
	}).Debug("PaddleOCR recognition finished")
	return out, nil
}
