package usecase

import (
	"context"
	"io"
)

// ImageStorage destino de las imágenes subidas. Lo implementa infrastructure/storage.
type ImageStorage interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
	PathFromURL(url string) (string, bool)
}
