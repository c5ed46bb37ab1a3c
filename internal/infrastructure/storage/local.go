package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk escribe bajo un directorio raíz que el servidor expone como estático.
type LocalDisk struct {
	root    string // absoluto
	baseURL string // prefijo público, ej. /static
}

// NewLocalDisk crea la raíz si no existe.
func NewLocalDisk(root, baseURL string) (*LocalDisk, error) {
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("storage/local: %w", err)
		}
		root = filepath.Join(cwd, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir %s: %w", root, err)
	}
	return &LocalDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root directorio absoluto servido en baseURL.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) abs(path string) (string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(d.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage/local: ruta fuera de la raíz: %s", path)
	}
	return full, nil
}

func (d *LocalDisk) Put(_ context.Context, path string, r io.Reader, _ string) error {
	full, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(full)
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return f.Close()
}

func (d *LocalDisk) Delete(_ context.Context, path string) error {
	full, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *LocalDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

func (d *LocalDisk) PathFromURL(url string) (string, bool) {
	return trimPrefixURL(d.baseURL, url)
}
