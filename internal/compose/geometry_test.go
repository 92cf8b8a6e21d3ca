package compose

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_OneDimensionBound(t *testing.T) {
	pageW, pageH := A4.WidthMM, A4.HeightMM
	aspect := A4.Aspect()

	sizes := [][2]float64{
		{2100, 2970},
		{1984, 800},
		{1984, 6000},
		{500, 5000},
		{3000, 100},
		{1, 1},
	}
	for _, sz := range sizes {
		t.Run(fmt.Sprintf("%vx%v", sz[0], sz[1]), func(t *testing.T) {
			w, h := Fit(sz[0], sz[1], pageW, pageH)
			ratio := sz[0] / sz[1]

			assert.InDelta(t, ratio, w/h, 1e-9, "aspect ratio preserved")
			assert.LessOrEqual(t, w, pageW+1e-9)
			assert.LessOrEqual(t, h, pageH+1e-9)
			if ratio >= aspect {
				assert.InDelta(t, pageW, w, 1e-9, "width-constrained")
			} else {
				assert.InDelta(t, pageH, h, 1e-9, "height-constrained")
			}
		})
	}
}

func TestFit_EmptyImage(t *testing.T) {
	w, h := Fit(0, 100, 210, 297)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestPageSizeUnits(t *testing.T) {
	assert.InDelta(t, 595.28, A4.WidthPt(), 0.01)
	assert.InDelta(t, 841.89, A4.HeightPt(), 0.01)
	assert.Equal(t, 794, A4.WidthPx())
}

func TestGeometryValidate(t *testing.T) {
	require.NoError(t, DefaultGeometry().Validate())

	g := DefaultGeometry()
	g.RasterScale = 1.5
	assert.Error(t, g.Validate())

	g = DefaultGeometry()
	g.VectorMarginPt = -1
	assert.Error(t, g.Validate())
}

func TestParseBackend(t *testing.T) {
	for in, want := range map[string]Backend{
		"raster": BackendRaster, "A": BackendRaster, " image ": BackendRaster,
		"vector": BackendVector, "b": BackendVector, "TEXT": BackendVector,
	} {
		got, err := ParseBackend(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBackend("svg")
	assert.Error(t, err)
}

func TestRetryable(t *testing.T) {
	capture := &CaptureError{Cause: io.EOF}

	assert.True(t, Retryable(capture))
	assert.True(t, Retryable(fmt.Errorf("attempt 1: %w", capture)))
	assert.True(t, errors.Is(capture, ErrCaptureFailed))
	assert.True(t, errors.Is(capture, io.EOF))
	assert.Contains(t, capture.Error(), "EOF")

	assert.False(t, Retryable(ErrRenderTargetMissing))
	assert.False(t, Retryable(io.EOF))
	assert.False(t, Retryable(nil))
}
