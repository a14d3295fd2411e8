package message

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	minQRSize     = 128
	maxQRSize     = 1024
	defaultQRSize = 256
)

// QRCode renders the deep link as a PNG so desktop visitors can scan it with their phone.
// Sizes outside [128, 1024] use 256 pixels.
func QRCode(deepLink string, size int) ([]byte, error) {
	if size < minQRSize || size > maxQRSize {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(deepLink, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
