package ports

import (
	"context"
	"io"
)

// ObjectStorage guarda arquivos (fotos de perfil, imagens de posts)
type ObjectStorage interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error)
	// Delete remove o objeto a partir da URL devolvida por Upload
	Delete(ctx context.Context, url string) error
}
