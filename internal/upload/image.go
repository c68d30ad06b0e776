package upload

import (
	"fmt"
	"image"
	"net/http"
	"os"

	// Decoders registered for dimension sniffing. The API accepts exactly
	// these four formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// allowedTypes is the MIME allow-list enforced before any network call.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// maxFileSize is the upload ceiling: 10 MiB.
const maxFileSize = 10 << 20

// detectContentType sniffs the MIME type from the file's leading bytes.
func detectContentType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// imageDimensions decodes the pixel size without decoding the full image.
// A nil error with zero dimensions never occurs; callers treat a decode
// failure as "dimensions unknown" and continue the upload.
func imageDimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
