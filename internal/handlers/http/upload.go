package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/services"
)

// openUpload abre o arquivo multipart de field limitando o corpo a maxBytes.
// O chamador deve fechar o io.Closer devolvido.
func openUpload(c *gin.Context, field string, maxBytes int64) (services.PhotoUpload, io.Closer, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return services.PhotoUpload{}, nil, domainerrors.ErrImageRequired
		}
		return services.PhotoUpload{}, nil, domainerrors.Wrap(domainerrors.ErrImageRequired, err)
	}

	file, err := header.Open()
	if err != nil {
		return services.PhotoUpload{}, nil, err
	}

	return services.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}, file, nil
}
