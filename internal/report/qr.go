package report

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// TokenQR encodes the token id as a PNG QR code of size×size pixels.
func TokenQR(tokenID string, size int) ([]byte, error) {
	png, err := qrcode.Encode(tokenID, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

// TokenQRTerminal renders the token id as a QR code made of text blocks.
func TokenQRTerminal(tokenID string) (string, error) {
	q, err := qrcode.New(tokenID, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	var sb strings.Builder
	for _, row := range q.Bitmap() {
		for _, dark := range row {
			if dark {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
