package compose

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"resume-renderer/internal/layout"
)

const (
	// RootID is the id of the element the raster backend captures.
	RootID = "printable-resume"
	// PaintedSelector matches once the page has settled fonts and painted
	// two frames.
	PaintedSelector = `body[data-painted="true"]`
)

//go:embed templates/resume.html.tmpl templates/style.css
var templatesFS embed.FS

var (
	pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/resume.html.tmpl"))
	baseStyle    = mustRead("templates/style.css")
)

func mustRead(name string) string {
	b, err := templatesFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

type sectionView struct {
	Name    string
	Heading string
	Inline  string
	Entries []layout.EntryBlock
}

type pageView struct {
	Title            string
	Style            template.CSS
	RootID           string
	ContactSeparator string
	Header           layout.HeaderBlock
	Summary          string
	Sections         []sectionView
}

// RenderHTML produces the self-contained document painted by the raster
// backend. The root element is sized to the page width; its height follows
// the content.
func RenderHTML(blocks []layout.Block, page PageSize, g Geometry) (string, error) {
	v := pageView{
		Title:            documentTitle(blocks),
		Style:            template.CSS(pageVars(page, g) + baseStyle),
		RootID:           RootID,
		ContactSeparator: layout.ContactSeparator,
	}
	for _, b := range blocks {
		switch blk := b.(type) {
		case layout.HeaderBlock:
			v.Header = blk
		case layout.SummaryBlock:
			v.Summary = blk.Text
		case layout.SectionBlock:
			v.Sections = append(v.Sections, sectionView{Name: string(blk.Section), Heading: blk.Heading, Entries: blk.Entries})
		case layout.InlineListBlock:
			v.Sections = append(v.Sections, sectionView{Name: string(blk.Section), Heading: blk.Heading, Inline: blk.Line()})
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "resume.html.tmpl", v); err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}
	return buf.String(), nil
}

func pageVars(page PageSize, g Geometry) string {
	return fmt.Sprintf(":root{--page-width:%gmm;--page-height:%gmm;--page-padding:%gcm;}\n",
		page.WidthMM, page.HeightMM, g.RasterPaddingCM)
}
