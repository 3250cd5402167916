package importer

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// EncodeQR renders the payload as a PNG QR code (error-correction level L)
// and returns the image base64-encoded for storage.
func EncodeQR(payload string, size int) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Low, size)
	if err != nil {
		return "", fmt.Errorf("failed to render qr code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
