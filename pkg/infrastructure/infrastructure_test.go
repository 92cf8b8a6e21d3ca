package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(filepath.Join(dir, "renders"))
	require.NoError(t, err)

	path, err := s.Put(context.Background(), "renders/abc/Jane.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "renders", "renders", "abc", "Jane.pdf"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(got))
}

func TestLocalStore_KeyCannotEscape(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	path, err := s.Put(context.Background(), "../../etc/x.pdf", []byte("x"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "etc", "x.pdf"), path)
}

func TestNewJobsPool_EmptyDSN(t *testing.T) {
	_, err := NewJobsPool(context.Background(), "")
	assert.Error(t, err)
}

func TestNewRedisCache_NoAddress(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisOptions{})
	assert.Error(t, err)
}
