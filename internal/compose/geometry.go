package compose

import (
	"errors"
	"fmt"
)

const (
	ptPerMM      = 72 / 25.4
	cssPxPerMM   = 96 / 25.4
	minRasterDPR = 2.0
)

// PageSize is a portrait page in millimetres.
type PageSize struct {
	Name     string
	WidthMM  float64
	HeightMM float64
}

// A4 is the only page size the service hands out today.
var A4 = PageSize{Name: "A4", WidthMM: 210, HeightMM: 297}

func (p PageSize) WidthPt() float64  { return p.WidthMM * ptPerMM }
func (p PageSize) HeightPt() float64 { return p.HeightMM * ptPerMM }

// WidthPx is the page width in CSS pixels.
func (p PageSize) WidthPx() int { return int(p.WidthMM*cssPxPerMM + 0.5) }

// Aspect is width over height.
func (p PageSize) Aspect() float64 { return p.WidthMM / p.HeightMM }

// Geometry collects the page constants of both backends.
type Geometry struct {
	// RasterPaddingCM is the CSS padding of the off-screen page.
	RasterPaddingCM float64
	// RasterScale is the device pixel ratio used when capturing.
	RasterScale float64
	// VectorMarginPt is the left/right/top/bottom margin of the vector backend.
	VectorMarginPt float64
}

func DefaultGeometry() Geometry {
	return Geometry{
		RasterPaddingCM: 1.25,
		RasterScale:     2.5,
		VectorMarginPt:  60,
	}
}

func (g Geometry) Validate() error {
	if g.RasterScale < minRasterDPR {
		return fmt.Errorf("raster scale %.2f below %.0fx", g.RasterScale, minRasterDPR)
	}
	if g.RasterPaddingCM < 0 || g.VectorMarginPt < 0 {
		return errors.New("margins must not be negative")
	}
	return nil
}

// Fit scales an image onto a page keeping its aspect ratio: full page width
// first, then clamped to the page height when the scaled height overflows.
// Exactly one dimension ends up bound by the page.
func Fit(imgW, imgH, pageW, pageH float64) (w, h float64) {
	if imgW <= 0 || imgH <= 0 {
		return 0, 0
	}
	ratio := imgW / imgH
	w, h = pageW, pageW/ratio
	if h > pageH {
		h = pageH
		w = pageH * ratio
	}
	return w, h
}
