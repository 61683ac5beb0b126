package export

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	MinQRSize     = 128
	MaxQRSize     = 1024
	DefaultQRSize = 256
)

// RegistrationURL is the link printed in a conference QR code
func RegistrationURL(frontendURL, urlCode string) string {
	return strings.TrimRight(frontendURL, "/") + "/register/" + urlCode
}

// QRCodePNG encodes content as a size×size PNG
func QRCodePNG(content string, size int) ([]byte, error) {
	if size < MinQRSize || size > MaxQRSize {
		return nil, fmt.Errorf("qr code size must be between %d and %d", MinQRSize, MaxQRSize)
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
