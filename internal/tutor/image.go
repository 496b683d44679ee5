package tutor

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

// MaxImageBytes caps attachments so a request stays well inside provider
// limits.
const MaxImageBytes = 5 << 20

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Image is a photo of a question.
type Image struct {
	MIMEType string
	Data     []byte
	Path     string
}

// LoadImage reads an image file, sniffing its type from the content.
func LoadImage(path string) (*Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if info.Size() > MaxImageBytes {
		return nil, fmt.Errorf("image %s is %d bytes, the limit is %d", path, info.Size(), MaxImageBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return NewImage(data, path)
}

// NewImage wraps raw bytes, rejecting anything that is not png, jpeg, gif,
// or webp.
func NewImage(data []byte, path string) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image %s is empty", path)
	}
	mime := http.DetectContentType(data)
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !imageTypes[mime] {
		return nil, fmt.Errorf("unsupported image type %s (want png, jpeg, gif, or webp)", mime)
	}
	return &Image{MIMEType: mime, Data: data, Path: path}, nil
}

func trimmed(s string) string { return strings.TrimSpace(s) }
