package service

import (
	"fmt"
	"image"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

const (
	teamQRPrefix   = "TEAM:"
	maxQRLabelSize = 40
)

// DecodeTeamQR looks for a team QR code sticker on the card and returns the
// label it carries.
func DecodeTeamQR(img image.Image) (string, error) {
	// Convert image to BinaryBitmap for QR decoding
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	qrReader := qrcode.NewQRCodeReader()
	result, err := qrReader.Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode QR code: %w", err)
	}

	return teamLabelFromQR(result.GetText())
}

func teamLabelFromQR(text string) (string, error) {
	text = strings.TrimSpace(text)
	if len(text) >= len(teamQRPrefix) && strings.EqualFold(text[:len(teamQRPrefix)], teamQRPrefix) {
		text = strings.TrimSpace(text[len(teamQRPrefix):])
	}
	if text == "" || len(text) > maxQRLabelSize {
		return "", fmt.Errorf("QR payload is not a team label")
	}
	return text, nil
}
