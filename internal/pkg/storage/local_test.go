package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := s.Upload(ctx, bytes.NewReader([]byte("payslip bytes")), "payslips/batch-1/EMP-001.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "payslips/batch-1/EMP-001.pdf", path)

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("payslip bytes"), data)

	require.NoError(t, s.Delete(ctx, path))
	_, err = s.Download(ctx, path)
	assert.Error(t, err)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(ctx, bytes.NewReader(nil), "../outside.txt", "text/plain")
	assert.Error(t, err)
}
