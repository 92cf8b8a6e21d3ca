// Package layout turns a resume into an ordered list of blocks. The result is
// a pure function of the document and labels, shared by every compositor so
// layout decisions cannot drift between output backends.
package layout

import (
	"strings"

	"resume-renderer/internal/labels"
	"resume-renderer/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Build lays out doc. The header is always first; a section appears only when
// its backing list is non-empty.
func Build(doc model.ResumeDocument, l labels.Labels) []Block {
	upper := cases.Upper(language.Make(l.Language))

	blocks := []Block{header(doc.Contact)}
	if s := strings.TrimSpace(doc.Summary); s != "" {
		blocks = append(blocks, SummaryBlock{Text: s})
	}

	for _, sec := range Order {
		heading := upper.String(strings.TrimSpace(headingFor(l, sec)))
		switch sec {
		case SectionExperience:
			if len(doc.Experience) == 0 {
				continue
			}
			entries := make([]EntryBlock, 0, len(doc.Experience))
			for _, e := range doc.Experience {
				entries = append(entries, EntryBlock{
					Title:    strings.TrimSpace(e.JobTitle),
					Date:     DateRange(e.StartDate, e.EndDate),
					Subtitle: upper.String(strings.TrimSpace(e.Company)),
					Bullets:  SplitBullets(e.Description),
				})
			}
			blocks = append(blocks, SectionBlock{Section: sec, Heading: heading, Entries: entries})
		case SectionProjects:
			if len(doc.Projects) == 0 {
				continue
			}
			entries := make([]EntryBlock, 0, len(doc.Projects))
			for _, p := range doc.Projects {
				entries = append(entries, EntryBlock{
					Title:   strings.TrimSpace(p.Title),
					Bullets: SplitBullets(p.Description),
				})
			}
			blocks = append(blocks, SectionBlock{Section: sec, Heading: heading, Entries: entries})
		case SectionEducation:
			if len(doc.Education) == 0 {
				continue
			}
			entries := make([]EntryBlock, 0, len(doc.Education))
			for _, e := range doc.Education {
				entries = append(entries, EntryBlock{
					Title:    strings.TrimSpace(e.Degree),
					Date:     DateRange(e.StartDate, e.EndDate),
					Subtitle: upper.String(strings.TrimSpace(e.School)),
				})
			}
			blocks = append(blocks, SectionBlock{Section: sec, Heading: heading, Entries: entries})
		case SectionSkills:
			if len(doc.Skills) == 0 {
				continue
			}
			blocks = append(blocks, InlineListBlock{Section: sec, Heading: heading, Items: items(doc.Skills)})
		case SectionLanguages:
			if len(doc.Languages) == 0 {
				continue
			}
			blocks = append(blocks, InlineListBlock{Section: sec, Heading: heading, Items: items(doc.Languages)})
		case SectionAwards:
			if len(doc.Awards) == 0 {
				continue
			}
			entries := make([]EntryBlock, 0, len(doc.Awards))
			for _, a := range doc.Awards {
				entries = append(entries, EntryBlock{
					Title: strings.TrimSpace(a.Title),
					Date:  strings.TrimSpace(a.Date),
				})
			}
			blocks = append(blocks, SectionBlock{Section: sec, Heading: heading, Entries: entries})
		case SectionActivities:
			if len(doc.Activities) == 0 {
				continue
			}
			entries := make([]EntryBlock, 0, len(doc.Activities))
			for _, a := range doc.Activities {
				entries = append(entries, EntryBlock{
					Title:   strings.TrimSpace(a.Title),
					Bullets: SplitBullets(a.Description),
				})
			}
			blocks = append(blocks, SectionBlock{Section: sec, Heading: heading, Entries: entries})
		}
	}
	return blocks
}

func header(c model.Contact) HeaderBlock {
	h := HeaderBlock{
		Name:     strings.TrimSpace(c.Name),
		LinkedIn: strings.TrimSpace(c.LinkedIn),
	}
	for _, v := range []string{c.Email, c.Phone, c.Address} {
		if v = strings.TrimSpace(v); v != "" {
			h.Contact = append(h.Contact, v)
		}
	}
	return h
}

func headingFor(l labels.Labels, s Section) string {
	switch s {
	case SectionExperience:
		return l.Experience
	case SectionProjects:
		return l.Projects
	case SectionEducation:
		return l.Education
	case SectionSkills:
		return l.Skills
	case SectionLanguages:
		return l.Languages
	case SectionAwards:
		return l.Awards
	case SectionActivities:
		return l.Activities
	}
	return string(s)
}

// items drops blank entries so the joined line never shows doubled separators.
func items(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DateRange formats an opaque start/end pair. A missing side collapses the
// range to the side that is present.
func DateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start != "" && end != "":
		return start + DateSeparator + end
	case start != "":
		return start
	default:
		return end
	}
}

// SplitBullets turns a line-oriented description into bullet texts: one per
// non-blank line, with a leading "- " marker removed.
func SplitBullets(desc string) []string {
	if strings.TrimSpace(desc) == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(desc, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, stripMarker(line))
	}
	return out
}

func stripMarker(line string) string {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "-") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	for strings.HasPrefix(s, "- ") {
		s = strings.TrimSpace(s[2:])
	}
	return s
}
