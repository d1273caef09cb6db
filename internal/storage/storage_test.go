package storage

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "https://files.example.com/files/", slog.Default())
	require.NoError(t, err)

	payload := []byte("fake jpeg bytes")
	url, err := store.Save(context.Background(), bytes.NewReader(payload), "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://files.example.com/files/"), "url %q should carry the base", url)
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	name := url[strings.LastIndex(url, "/")+1:]
	onDisk, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, payload, onDisk)
}

func TestDiskStoreSameContentSamePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "http://localhost:8080/files", slog.Default())
	require.NoError(t, err)

	first, err := store.Save(context.Background(), bytes.NewReader([]byte("same bytes")), "image/png")
	require.NoError(t, err)
	second, err := store.Save(context.Background(), bytes.NewReader([]byte("same bytes")), "image/png")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "identical uploads should not duplicate blobs")

	other, err := store.Save(context.Background(), bytes.NewReader([]byte("other bytes")), "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestDiskStoreUnknownContentType(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/files", slog.Default())
	require.NoError(t, err)

	url, err := store.Save(context.Background(), strings.NewReader("data"), "application/x-mystery")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".bin"))
}

func TestDiskStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewDiskStore(dir, "http://localhost:8080/files", slog.Default())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
