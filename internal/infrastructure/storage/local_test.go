package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/perfumes-admin-api/internal/infrastructure/storage"
	"github.com/jhoicas/perfumes-admin-api/pkg/config"
)

func TestLocalDisk_PutURLDelete(t *testing.T) {
	root := t.TempDir()
	disk, err := storage.NewLocalDisk(root, "/static/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, disk.Put(ctx, "uploads/products/1-abc.png", strings.NewReader("png"), "image/png"))
	data, err := os.ReadFile(filepath.Join(root, "uploads", "products", "1-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	url := disk.URL("uploads/products/1-abc.png")
	assert.Equal(t, "/static/uploads/products/1-abc.png", url)

	path, ok := disk.PathFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "uploads/products/1-abc.png", path)

	require.NoError(t, disk.Delete(ctx, path))
	_, err = os.Stat(filepath.Join(root, "uploads", "products", "1-abc.png"))
	assert.True(t, os.IsNotExist(err))

	// borrar algo inexistente no es error
	assert.NoError(t, disk.Delete(ctx, path))
}

func TestLocalDisk_RechazaRutasFueraDeLaRaiz(t *testing.T) {
	disk, err := storage.NewLocalDisk(t.TempDir(), "/static")
	require.NoError(t, err)

	assert.Error(t, disk.Put(context.Background(), "../escape.txt", strings.NewReader("x"), ""))

	_, ok := disk.PathFromURL("/static/../etc/passwd")
	assert.False(t, ok)
	_, ok = disk.PathFromURL("https://otro.host/x.png")
	assert.False(t, ok)
}

func TestNew_DriverDesconocido(t *testing.T) {
	_, err := storage.New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}

func TestNew_S3SinBucket(t *testing.T) {
	_, err := storage.New(context.Background(), config.StorageConfig{Driver: "s3"})
	assert.Error(t, err)
}
