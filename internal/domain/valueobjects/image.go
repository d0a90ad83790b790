package valueobjects

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrUnsupportedImageType = errors.New("unsupported image extension")

var (
	ProfilePhotoExtensions = []string{"jpg", "jpeg", "png", "heic", "heif"}
	PostImageExtensions    = []string{"jpg", "jpeg", "png"}
)

// CheckImageExtension valida apenas a extensão do arquivo
func CheckImageExtension(filename string, allowed []string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return ErrUnsupportedImageType
}
