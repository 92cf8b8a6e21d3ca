package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"resume-renderer/internal/compose"
	"resume-renderer/internal/labels"
	"resume-renderer/internal/layout"
	"resume-renderer/internal/model"
)

// Render lays out doc and composes it. It keeps no state between calls.
func Render(ctx context.Context, c compose.Compositor, doc model.ResumeDocument, l labels.Labels, page compose.PageSize) ([]byte, error) {
	return c.Compose(ctx, layout.Build(doc, l), page)
}

type keyedBlock struct {
	Kind  string       `json:"k"`
	Block layout.Block `json:"b"`
}

// CacheKey identifies a composed document. Equal block sequences composed on
// the same page by compositors with the same fingerprint share a key.
func CacheKey(fingerprint string, page compose.PageSize, blocks []layout.Block) (string, error) {
	kb := make([]keyedBlock, len(blocks))
	for i, b := range blocks {
		kb[i] = keyedBlock{Kind: b.Kind().String(), Block: b}
	}
	raw, err := json.Marshal(struct {
		Compositor string           `json:"compositor"`
		Page       compose.PageSize `json:"page"`
		Blocks     []keyedBlock     `json:"blocks"`
	}{fingerprint, page, kb})
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(raw)
	return "resume:render:" + hex.EncodeToString(sum[:]), nil
}
