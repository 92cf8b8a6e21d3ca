package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"resume-renderer/internal/layout"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

// CaptureRequest describes one off-screen paint.
type CaptureRequest struct {
	HTML string
	// Selector is the element to capture.
	Selector string
	// ReadySelector must match before capture starts.
	ReadySelector string
	// ViewportWidth is in CSS pixels.
	ViewportWidth int
	// Scale is the device pixel ratio.
	Scale float64
}

// Surface paints HTML off-screen and returns an encoded image of the
// requested element. Implementations return ErrRenderTargetMissing when the
// element does not exist.
type Surface interface {
	Capture(ctx context.Context, req CaptureRequest) ([]byte, error)
}

// RasterCompositor captures the laid-out page as one image and places it on a
// single page. Content taller than one page is scaled down to fit.
type RasterCompositor struct {
	surface Surface
	geom    Geometry
	log     zerolog.Logger
}

func NewRasterCompositor(s Surface, g Geometry, log zerolog.Logger) *RasterCompositor {
	return &RasterCompositor{surface: s, geom: g, log: log.With().Str("backend", string(BackendRaster)).Logger()}
}

func (r *RasterCompositor) Fingerprint() string {
	return fmt.Sprintf("%s;padding=%g;scale=%g", BackendRaster, r.geom.RasterPaddingCM, r.geom.RasterScale)
}

func (r *RasterCompositor) Compose(ctx context.Context, blocks []layout.Block, page PageSize) ([]byte, error) {
	if r.surface == nil {
		return nil, ErrRenderTargetMissing
	}
	doc, err := RenderHTML(blocks, page, r.geom)
	if err != nil {
		return nil, err
	}

	img, err := r.surface.Capture(ctx, CaptureRequest{
		HTML:          doc,
		Selector:      "#" + RootID,
		ReadySelector: PaintedSelector,
		ViewportWidth: page.WidthPx(),
		Scale:         r.geom.RasterScale,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrRenderTargetMissing), errors.Is(err, ErrCaptureFailed):
			return nil, err
		case ctx.Err() != nil:
			return nil, ctx.Err()
		}
		return nil, &CaptureError{Cause: err}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, &CaptureError{Cause: fmt.Errorf("decode capture: %w", err)}
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, &CaptureError{Cause: errors.New("empty capture")}
	}

	w, h := Fit(float64(cfg.Width), float64(cfg.Height), page.WidthMM, page.HeightMM)
	r.log.Debug().
		Int("px_w", cfg.Width).Int("px_h", cfg.Height).
		Float64("mm_w", w).Float64("mm_h", h).
		Msg("placing capture")

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: page.WidthMM, Ht: page.HeightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(documentTitle(blocks), true)
	pdf.SetCreator(creator, true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: imageType(format)}
	pdf.RegisterImageOptionsReader("capture", opts, bytes.NewReader(img))
	pdf.ImageOptions("capture", (page.WidthMM-w)/2, 0, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

func imageType(format string) string {
	if format == "jpeg" {
		return "JPG"
	}
	return "PNG"
}
