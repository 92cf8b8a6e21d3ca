package inspect

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"resume-renderer/internal/compose"
	"resume-renderer/internal/layout"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorPDF(t *testing.T, blocks []layout.Block) []byte {
	t.Helper()
	c := compose.NewVectorCompositor(compose.DefaultGeometry(), compose.Fonts{}, zerolog.Nop())
	b, err := c.Compose(context.Background(), blocks, compose.A4)
	require.NoError(t, err)
	return b
}

func TestInspect(t *testing.T) {
	b := vectorPDF(t, []layout.Block{
		layout.HeaderBlock{Name: "Jane Doe", Contact: []string{"jane@example.com"}},
		layout.SectionBlock{Section: layout.SectionExperience, Heading: "EXPERIENCE", Entries: []layout.EntryBlock{
			{Title: "Lead", Bullets: []string{"Led team"}},
		}},
	})

	r, err := Inspect(b)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Pages)
	assert.Equal(t, len(b), r.Size)
	assert.Contains(t, r.Text, "Jane Doe")
	assert.Contains(t, r.Text, "EXPERIENCE")
}

func TestVerify_MultiPage(t *testing.T) {
	entries := make([]layout.EntryBlock, 0, 40)
	for i := 0; i < 40; i++ {
		entries = append(entries, layout.EntryBlock{
			Title:   fmt.Sprintf("Role %d", i),
			Bullets: []string{strings.Repeat("detail ", 30), "second", "third"},
		})
	}
	b := vectorPDF(t, []layout.Block{
		layout.HeaderBlock{Name: "Long"},
		layout.SectionBlock{Section: layout.SectionExperience, Heading: "EXPERIENCE", Entries: entries},
	})

	pages, err := Verify(b)
	require.NoError(t, err)
	assert.Greater(t, pages, 1)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	_, err := Verify([]byte("hello"))
	assert.ErrorIs(t, err, ErrNotPDF)

	_, err = Verify([]byte("%PDF-1.4\nbroken"))
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestPreview(t *testing.T) {
	b := vectorPDF(t, []layout.Block{layout.HeaderBlock{Name: "Jane Doe"}})

	img, err := Preview(b, 0)
	require.NoError(t, err)
	require.Greater(t, len(img), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, img[:2])

	_, err = Preview(b, 3)
	assert.Error(t, err)
}
