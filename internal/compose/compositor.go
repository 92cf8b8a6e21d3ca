// Package compose places laid-out blocks onto fixed-size pages and produces
// PDF bytes. Two backends share the Compositor contract: a raster backend that
// paints the blocks on an off-screen surface and embeds the capture as one
// image, and a vector backend that draws text and rules directly.
package compose

import (
	"context"
	"fmt"
	"strings"

	"resume-renderer/internal/layout"
)

// Compositor turns a block sequence into document bytes. Fingerprint names
// every setting that changes the output for equal blocks and page.
type Compositor interface {
	Compose(ctx context.Context, blocks []layout.Block, page PageSize) ([]byte, error)
	Fingerprint() string
}

// Backend selects a Compositor implementation.
type Backend string

const (
	// BackendRaster favours visual fidelity: one captured image per document.
	BackendRaster Backend = "raster"
	// BackendVector favours file size and keeps text selectable.
	BackendVector Backend = "vector"
)

// ParseBackend accepts the backend names plus the "a"/"b" shorthands.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raster", "image", "a":
		return BackendRaster, nil
	case "vector", "text", "b":
		return BackendVector, nil
	}
	return "", fmt.Errorf("unknown backend %q", s)
}

func (b Backend) String() string { return string(b) }

const creator = "resume-renderer"

// documentTitle is the header name, used for PDF metadata.
func documentTitle(blocks []layout.Block) string {
	for _, b := range blocks {
		if h, ok := b.(layout.HeaderBlock); ok && h.Name != "" {
			return h.Name
		}
	}
	return "Resume"
}
