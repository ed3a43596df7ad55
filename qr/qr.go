// Package qr renders the per-tool QR code images.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 500

// Generate renders the payload as a PNG. Same contract the upload and
// download endpoints expect: raw image bytes.
func Generate(data string) ([]byte, error) {
	png, err := qrcode.Encode(data, qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	return png, nil
}

// ToolPayload is the string encoded into a tool's QR code.
func ToolPayload(toolID uint) string {
	return fmt.Sprintf("tool_id: %d", toolID)
}
