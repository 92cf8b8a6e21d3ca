package layout

import "strings"

// Kind identifies the visual role of a Block.
type Kind int

const (
	KindHeader Kind = iota + 1
	KindSummary
	KindSection
	KindInlineList
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindSummary:
		return "summary"
	case KindSection:
		return "section"
	case KindInlineList:
		return "inline_list"
	default:
		return "unknown"
	}
}

// Section names a resume section. The values double as label keys.
type Section string

const (
	SectionExperience Section = "experience"
	SectionProjects   Section = "projects"
	SectionEducation  Section = "education"
	SectionSkills     Section = "skills"
	SectionLanguages  Section = "languages"
	SectionAwards     Section = "awards"
	SectionActivities Section = "activities"
)

// Order is the fixed order in which sections are laid out.
var Order = []Section{
	SectionExperience,
	SectionProjects,
	SectionEducation,
	SectionSkills,
	SectionLanguages,
	SectionAwards,
	SectionActivities,
}

const (
	ContactSeparator = " | "
	ItemSeparator    = " • "
	DateSeparator    = " - "
)

// Block is one element of the laid-out document, drawn top to bottom.
type Block interface {
	Kind() Kind
}

// HeaderBlock carries the name and the contact segments that survived
// blank-field filtering. LinkedIn is drawn as a link after the other segments.
type HeaderBlock struct {
	Name     string
	Contact  []string
	LinkedIn string
}

func (HeaderBlock) Kind() Kind { return KindHeader }

// Segments returns every contact segment in display order, LinkedIn last.
func (h HeaderBlock) Segments() []string {
	out := append([]string(nil), h.Contact...)
	if h.LinkedIn != "" {
		out = append(out, h.LinkedIn)
	}
	return out
}

// ContactLine joins the segments with ContactSeparator.
func (h HeaderBlock) ContactLine() string {
	return strings.Join(h.Segments(), ContactSeparator)
}

type SummaryBlock struct {
	Text string
}

func (SummaryBlock) Kind() Kind { return KindSummary }

// SectionBlock is a headed list of entries. Heading is already uppercased.
type SectionBlock struct {
	Section Section
	Heading string
	Entries []EntryBlock
}

func (SectionBlock) Kind() Kind { return KindSection }

// EntryBlock is one item of a section: a title line with an optional
// right-aligned date, an optional subtitle and zero or more bullets.
type EntryBlock struct {
	Title    string
	Date     string
	Subtitle string
	Bullets  []string
}

// InlineListBlock renders a headed list on one flowing line.
type InlineListBlock struct {
	Section Section
	Heading string
	Items   []string
}

func (InlineListBlock) Kind() Kind { return KindInlineList }

// Line joins the items with ItemSeparator; the last item has no trailing separator.
func (b InlineListBlock) Line() string {
	return strings.Join(b.Items, ItemSeparator)
}
