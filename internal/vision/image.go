// internal/vision/image.go
package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

// Image is a solved grid ready to send to a model.
type Image struct {
	Path      string
	MediaType string
	Data      []byte
	Width     int
	Height    int
}

var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Extensions lists the supported image suffixes.
func Extensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}
}

// MediaType returns the MIME type for an image path by its extension.
func MediaType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := mediaTypes[ext]; ok {
		return mt, nil
	}
	return "", fmt.Errorf("unsupported image format: %q", ext)
}

// LoadImage reads an image and checks that its contents decode as the
// format its extension claims.
func LoadImage(path string) (Image, error) {
	mt, err := MediaType(path)
	if err != nil {
		return Image{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if "image/"+format != mt {
		return Image{}, fmt.Errorf("%s: content is %s but extension says %s", filepath.Base(path), format, mt)
	}
	return Image{Path: path, MediaType: mt, Data: data, Width: cfg.Width, Height: cfg.Height}, nil
}
