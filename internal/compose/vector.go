package compose

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"resume-renderer/internal/layout"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

const (
	coreFamily = "Helvetica"
	utf8Family = "ResumeSans"
	bulletMark = "•"
)

// Fonts holds optional TrueType data. Without it the vector backend uses the
// core Helvetica face, which only covers Windows-1252.
type Fonts struct {
	Regular []byte
	Bold    []byte
}

// LoadFonts reads TrueType files from disk. An empty regular path yields the
// zero Fonts; an empty bold path reuses the regular face.
func LoadFonts(regularPath, boldPath string) (Fonts, error) {
	var f Fonts
	if regularPath == "" {
		return f, nil
	}
	b, err := os.ReadFile(regularPath)
	if err != nil {
		return f, fmt.Errorf("read font %s: %w", regularPath, err)
	}
	f.Regular = b
	if boldPath != "" {
		if f.Bold, err = os.ReadFile(boldPath); err != nil {
			return f, fmt.Errorf("read font %s: %w", boldPath, err)
		}
	}
	return f, nil
}

type rgb struct{ r, g, b int }

var (
	colorInk         = rgb{17, 24, 39}
	colorBody        = rgb{55, 65, 81}
	colorMuted       = rgb{75, 85, 99}
	colorLink        = rgb{41, 100, 255}
	colorRule        = rgb{209, 213, 219}
	colorHeadingRule = rgb{156, 163, 175}
)

// typography holds font sizes and vertical advances in points.
type typography struct {
	NameSize, NameAdvance       float64
	ContactSize, ContactAdvance float64
	RuleGap, AfterHeader        float64
	HeadingSize                 float64
	HeadingRuleGap, AfterRule   float64
	TitleSize, EntryLine        float64
	SubtitleSize                float64
	BulletSize, BulletLine      float64
	BulletIndent, BulletMarkX   float64
	EntryGap, SectionGap        float64
}

var defaultTypography = typography{
	NameSize: 24, NameAdvance: 28,
	ContactSize: 10, ContactAdvance: 14,
	RuleGap: 5, AfterHeader: 25,
	HeadingSize:    11,
	HeadingRuleGap: 4, AfterRule: 18,
	TitleSize: 10, EntryLine: 14,
	SubtitleSize: 9.5,
	BulletSize:   9.5, BulletLine: 13,
	BulletIndent: 15, BulletMarkX: 5,
	EntryGap: 8, SectionGap: 6,
}

type opKind int

const (
	opText opKind = iota
	opRule
)

// drawOp is one positioned drawing instruction. Coordinates are points from
// the top-left corner; text y is the baseline.
type drawOp struct {
	kind  opKind
	page  int
	x, y  float64
	x2    float64
	text  string
	style string
	size  float64
	color rgb
	link  string
	width float64
}

// measurer is the subset of *fpdf.Fpdf the planner needs.
type measurer interface {
	SetFont(familyStr, styleStr string, size float64)
	GetStringWidth(s string) float64
}

// VectorCompositor draws text and rules directly. Output is searchable and
// small; content that does not fit continues on a new page.
type VectorCompositor struct {
	geom  Geometry
	fonts Fonts
	log   zerolog.Logger
}

func NewVectorCompositor(g Geometry, fonts Fonts, log zerolog.Logger) *VectorCompositor {
	return &VectorCompositor{geom: g, fonts: fonts, log: log.With().Str("backend", string(BackendVector)).Logger()}
}

func (v *VectorCompositor) Fingerprint() string {
	font := "core"
	if len(v.fonts.Regular) > 0 {
		sum := sha256.New()
		sum.Write(v.fonts.Regular)
		sum.Write(v.fonts.Bold)
		font = "ttf:" + hex.EncodeToString(sum.Sum(nil)[:8])
	}
	return fmt.Sprintf("%s;margin=%g;font=%s", BackendVector, v.geom.VectorMarginPt, font)
}

func (v *VectorCompositor) Compose(ctx context.Context, blocks []layout.Block, page PageSize) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.WidthPt(), Ht: page.HeightPt()},
	})
	m := v.geom.VectorMarginPt
	pdf.SetMargins(m, m, m)
	pdf.SetAutoPageBreak(false, m)
	pdf.SetTitle(documentTitle(blocks), true)
	pdf.SetCreator(creator, true)

	family, enc := coreFamily, pdf.UnicodeTranslatorFromDescriptor("")
	if len(v.fonts.Regular) > 0 {
		bold := v.fonts.Bold
		if len(bold) == 0 {
			bold = v.fonts.Regular
		}
		pdf.AddUTF8FontFromBytes(utf8Family, "", v.fonts.Regular)
		pdf.AddUTF8FontFromBytes(utf8Family, "B", bold)
		family, enc = utf8Family, func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	ops, pages := plan(pdf, family, enc, blocks, page, m, defaultTypography)
	v.log.Debug().Int("ops", len(ops)).Int("pages", pages).Msg("planned document")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	draw(pdf, family, ops, pages)

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

func draw(pdf *fpdf.Fpdf, family string, ops []drawOp, pages int) {
	current := -1
	for _, op := range ops {
		for current < op.page {
			pdf.AddPage()
			current++
		}
		switch op.kind {
		case opRule:
			pdf.SetDrawColor(op.color.r, op.color.g, op.color.b)
			pdf.SetLineWidth(op.width)
			pdf.Line(op.x, op.y, op.x2, op.y)
		case opText:
			pdf.SetFont(family, op.style, op.size)
			pdf.SetTextColor(op.color.r, op.color.g, op.color.b)
			pdf.Text(op.x, op.y, op.text)
			if op.link != "" {
				pdf.LinkString(op.x, op.y-op.size*0.8, op.width, op.size, op.link)
			}
		}
	}
	for current < pages-1 {
		pdf.AddPage()
		current++
	}
}

// plan positions every block. It measures with m but does not draw, so the
// result can be checked without parsing PDF output.
func plan(m measurer, family string, enc func(string) string, blocks []layout.Block, page PageSize, margin float64, t typography) ([]drawOp, int) {
	p := &planner{
		m:      m,
		family: family,
		enc:    enc,
		t:      t,
		pageW:  page.WidthPt(),
		pageH:  page.HeightPt(),
		margin: margin,
		y:      margin,
	}
	for _, b := range blocks {
		switch blk := b.(type) {
		case layout.HeaderBlock:
			p.header(blk)
		case layout.SummaryBlock:
			p.summary(blk)
		case layout.SectionBlock:
			p.section(blk)
		case layout.InlineListBlock:
			p.inline(blk)
		}
	}
	return p.ops, p.page + 1
}

type planner struct {
	m      measurer
	family string
	enc    func(string) string
	t      typography

	pageW, pageH, margin float64

	page int
	y    float64
	ops  []drawOp
}

func (p *planner) contentW() float64 { return p.pageW - 2*p.margin }

// need starts a new page unless h points below the current baseline still
// fit above the bottom margin.
func (p *planner) need(h float64) {
	if p.y+h > p.pageH-p.margin && p.y > p.margin {
		p.page++
		p.y = p.margin
	}
}

func (p *planner) font(style string, size float64) { p.m.SetFont(p.family, style, size) }

func (p *planner) text(x float64, s, style string, size float64, c rgb, link string) {
	p.font(style, size)
	p.ops = append(p.ops, drawOp{
		kind: opText, page: p.page, x: x, y: p.y,
		text: s, style: style, size: size, color: c, link: link,
		width: p.m.GetStringWidth(s),
	})
}

func (p *planner) centered(s, style string, size float64, c rgb, link string) {
	p.font(style, size)
	p.text((p.pageW-p.m.GetStringWidth(s))/2, s, style, size, c, link)
}

func (p *planner) rule(c rgb, width float64) {
	p.ops = append(p.ops, drawOp{kind: opRule, page: p.page, x: p.margin, x2: p.pageW - p.margin, y: p.y, color: c, width: width})
}

func (p *planner) header(h layout.HeaderBlock) {
	t := p.t
	p.font("B", t.NameSize)
	for _, line := range p.wrap(p.enc(h.Name), p.contentW()) {
		p.centered(line, "B", t.NameSize, colorInk, "")
		p.y += t.NameAdvance
	}

	plain := p.enc(strings.Join(h.Contact, layout.ContactSeparator))
	link := p.enc(h.LinkedIn)
	sep := p.enc(layout.ContactSeparator)
	p.font("", t.ContactSize)
	if plain != "" && link != "" && p.m.GetStringWidth(plain+sep+link) <= p.contentW() {
		x := (p.pageW - p.m.GetStringWidth(plain+sep+link)) / 2
		p.text(x, plain+sep, "", t.ContactSize, colorMuted, "")
		p.text(x+p.m.GetStringWidth(plain+sep), link, "", t.ContactSize, colorLink, h.LinkedIn)
		p.y += t.ContactAdvance
	} else {
		for _, line := range p.wrap(plain, p.contentW()) {
			p.centered(line, "", t.ContactSize, colorMuted, "")
			p.y += t.ContactAdvance
		}
		if link != "" {
			p.centered(link, "", t.ContactSize, colorLink, h.LinkedIn)
			p.y += t.ContactAdvance
		}
	}

	p.y += t.RuleGap
	p.rule(colorRule, 0.75)
	p.y += t.AfterHeader
}

func (p *planner) summary(s layout.SummaryBlock) {
	t := p.t
	p.font("", t.ContactSize)
	for _, line := range p.wrap(p.enc(s.Text), p.contentW()) {
		p.need(0)
		p.centered(line, "", t.ContactSize, colorBody, "")
		p.y += t.ContactAdvance
	}
	p.y += t.EntryGap
}

// heading keeps the section title on the same page as its first line.
func (p *planner) heading(text string) {
	t := p.t
	p.need(t.HeadingRuleGap + t.AfterRule)
	p.text(p.margin, p.enc(text), "B", t.HeadingSize, colorInk, "")
	p.y += t.HeadingRuleGap
	p.rule(colorHeadingRule, 1)
	p.y += t.AfterRule
}

func (p *planner) section(s layout.SectionBlock) {
	p.heading(s.Heading)
	for _, e := range s.Entries {
		p.entry(e)
	}
	p.y += p.t.SectionGap
}

func (p *planner) entry(e layout.EntryBlock) {
	t := p.t

	date := p.enc(e.Date)
	p.font("", t.TitleSize)
	dateW := p.m.GetStringWidth(date)
	titleW := p.contentW()
	if date != "" {
		titleW -= dateW + t.BulletIndent
	}
	p.font("B", t.TitleSize)
	titles := p.wrap(p.enc(e.Title), titleW)
	if len(titles) == 0 {
		titles = []string{""}
	}
	p.need(0)
	for i, line := range titles {
		if i > 0 {
			p.need(0)
		}
		if line != "" {
			p.text(p.margin, line, "B", t.TitleSize, colorInk, "")
		}
		if i == 0 && date != "" {
			p.text(p.pageW-p.margin-dateW, date, "", t.TitleSize, colorMuted, "")
		}
		p.y += t.EntryLine
	}

	if e.Subtitle != "" {
		p.font("", t.SubtitleSize)
		for _, line := range p.wrap(p.enc(e.Subtitle), p.contentW()) {
			p.need(0)
			p.text(p.margin, line, "", t.SubtitleSize, colorBody, "")
			p.y += t.EntryLine
		}
	}

	mark := p.enc(bulletMark)
	for _, b := range e.Bullets {
		p.font("", t.BulletSize)
		lines := p.wrap(p.enc(b), p.contentW()-t.BulletIndent)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for i, line := range lines {
			p.need(0)
			if i == 0 {
				p.text(p.margin+t.BulletMarkX, mark, "", t.BulletSize, colorMuted, "")
			}
			if line != "" {
				p.text(p.margin+t.BulletIndent, line, "", t.BulletSize, colorMuted, "")
			}
			p.y += t.BulletLine
		}
	}
	p.y += t.EntryGap
}

func (p *planner) inline(l layout.InlineListBlock) {
	t := p.t
	p.heading(l.Heading)
	p.font("", t.ContactSize)
	for _, line := range p.wrap(p.enc(l.Line()), p.contentW()) {
		p.need(0)
		p.text(p.margin, line, "", t.ContactSize, colorBody, "")
		p.y += t.EntryLine
	}
	p.y += t.EntryGap + t.SectionGap
}

// wrap breaks text into lines no wider than width using the current font.
// Newlines start a new line; words wider than width are split.
func (p *planner) wrap(text string, width float64) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		cur := ""
		for _, word := range strings.Fields(para) {
			for p.m.GetStringWidth(word) > width {
				head, tail := p.cut(word, width)
				if cur != "" {
					lines = append(lines, cur)
					cur = ""
				}
				lines = append(lines, head)
				word = tail
			}
			if word == "" {
				continue
			}
			switch {
			case cur == "":
				cur = word
			case p.m.GetStringWidth(cur+" "+word) <= width:
				cur += " " + word
			default:
				lines = append(lines, cur)
				cur = word
			}
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}

// cut returns the longest prefix of word that fits width, at least one
// character long. Offsets follow UTF-8 decoding so single-byte encoded text
// is cut one byte at a time.
func (p *planner) cut(word string, width float64) (string, string) {
	end := 0
	for end < len(word) {
		_, size := utf8.DecodeRuneInString(word[end:])
		if end > 0 && p.m.GetStringWidth(word[:end+size]) > width {
			break
		}
		end += size
	}
	return word[:end], word[end:]
}
