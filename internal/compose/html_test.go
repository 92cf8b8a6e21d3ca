package compose

import (
	"strings"
	"testing"

	"resume-renderer/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBlocks() []layout.Block {
	return []layout.Block{
		layout.HeaderBlock{Name: "Jane Doe", Contact: []string{"jane@example.com", "99119911"}, LinkedIn: "https://linkedin.com/in/jane"},
		layout.SummaryBlock{Text: "Backend engineer."},
		layout.SectionBlock{
			Section: layout.SectionExperience,
			Heading: "EXPERIENCE",
			Entries: []layout.EntryBlock{
				{Title: "Lead", Date: "2020 - 2023", Subtitle: "ACME", Bullets: []string{"Led team", "Built pipeline"}},
			},
		},
		layout.InlineListBlock{Section: layout.SectionSkills, Heading: "SKILLS", Items: []string{"Go", "SQL"}},
	}
}

func TestRenderHTML(t *testing.T) {
	doc, err := RenderHTML(sampleBlocks(), A4, DefaultGeometry())
	require.NoError(t, err)

	assert.Contains(t, doc, `id="printable-resume"`)
	assert.Contains(t, doc, "<h1 class=\"name\">Jane Doe</h1>")
	assert.Contains(t, doc, `<a href="https://linkedin.com/in/jane">`)
	assert.Contains(t, doc, "jane@example.com</span> | <span>99119911")
	assert.Contains(t, doc, "<h2>EXPERIENCE</h2>")
	assert.Contains(t, doc, "<li>Led team</li>")
	assert.Contains(t, doc, "<li>Built pipeline</li>")
	assert.Contains(t, doc, "Go • SQL")
	assert.Contains(t, doc, "--page-width:210mm")
	assert.Contains(t, doc, "--page-padding:1.25cm")
	assert.Contains(t, doc, "data-painted")
	assert.Less(t, strings.Index(doc, "EXPERIENCE"), strings.Index(doc, "SKILLS"))
}

func TestRenderHTML_EscapesContent(t *testing.T) {
	blocks := []layout.Block{layout.HeaderBlock{Name: "<script>alert(1)</script>"}}
	doc, err := RenderHTML(blocks, A4, DefaultGeometry())
	require.NoError(t, err)
	assert.NotContains(t, doc, "<script>alert(1)</script>")
	assert.Contains(t, doc, "&lt;script&gt;")
}

func TestRenderHTML_HeaderOnly(t *testing.T) {
	doc, err := RenderHTML([]layout.Block{layout.HeaderBlock{}}, A4, DefaultGeometry())
	require.NoError(t, err)
	assert.NotContains(t, doc, `class="contact-info"`)
	assert.NotContains(t, doc, "<section")
}
