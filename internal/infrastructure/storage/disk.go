// Package storage guarda archivos subidos (imágenes de producto) en disco local o en S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/perfumes-admin-api/pkg/config"
)

// Disk almacenamiento de archivos direccionados por ruta relativa ("uploads/products/1-x.png").
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	Delete(ctx context.Context, path string) error
	// URL devuelve la URL pública de la ruta.
	URL(path string) string
	// PathFromURL hace lo inverso de URL; false si la URL no pertenece al disco.
	PathFromURL(url string) (string, bool)
}

// New crea el disco según STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (Disk, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalDisk(cfg.LocalRoot, cfg.PublicURL)
	case "s3":
		return NewS3Disk(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}

func trimPrefixURL(baseURL, url string) (string, bool) {
	prefix := baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	path := strings.TrimPrefix(url, prefix)
	if path == "" || strings.Contains(path, "..") {
		return "", false
	}
	return path, true
}
