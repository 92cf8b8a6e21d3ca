// Package labels holds the localized section headings handed to the renderer.
// The renderer never translates anything itself; callers resolve a Labels
// value here (or supply their own) before asking for a document.
package labels

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when a caller asks for a language the catalogue lacks.
const DefaultLanguage = "en"

type Labels struct {
	Language   string `yaml:"-" json:"language,omitempty"`
	Summary    string `yaml:"summary" json:"summary"`
	Experience string `yaml:"experience" json:"experience"`
	Education  string `yaml:"education" json:"education"`
	Skills     string `yaml:"skills" json:"skills"`
	Languages  string `yaml:"languages" json:"languages"`
	Projects   string `yaml:"projects" json:"projects"`
	Awards     string `yaml:"awards" json:"awards"`
	Activities string `yaml:"activities" json:"activities"`
	Contact    string `yaml:"contact" json:"contact"`
}

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog maps a language code to its labels.
type Catalog map[string]Labels

// Parse reads a yaml catalogue keyed by language code.
func Parse(b []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse label catalog: %w", err)
	}
	for lang, l := range c {
		l.Language = lang
		c[lang] = l
	}
	return c, nil
}

var builtin Catalog

func init() {
	c, err := Parse(catalogYAML)
	if err != nil {
		panic(err)
	}
	if _, ok := c[DefaultLanguage]; !ok {
		panic("labels: embedded catalog has no " + DefaultLanguage + " entry")
	}
	builtin = c
}

// Builtin returns the embedded catalogue.
func Builtin() Catalog { return builtin }

// For returns the labels of lang, falling back to English. Region suffixes
// ("mn-MN") are ignored.
func (c Catalog) For(lang string) Labels {
	key := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(key, "-_"); i > 0 {
		key = key[:i]
	}
	if l, ok := c[key]; ok {
		return l
	}
	if l, ok := c[DefaultLanguage]; ok {
		return l
	}
	return builtin[DefaultLanguage]
}

// Languages lists the catalogue's language codes.
func (c Catalog) Languages() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	return out
}

// For resolves lang against the embedded catalogue.
func For(lang string) Labels { return builtin.For(lang) }

// Merge fills every blank field of l from base. The language of l wins when set.
func (l Labels) Merge(base Labels) Labels {
	pick := func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	}
	return Labels{
		Language:   pick(l.Language, base.Language),
		Summary:    pick(l.Summary, base.Summary),
		Experience: pick(l.Experience, base.Experience),
		Education:  pick(l.Education, base.Education),
		Skills:     pick(l.Skills, base.Skills),
		Languages:  pick(l.Languages, base.Languages),
		Projects:   pick(l.Projects, base.Projects),
		Awards:     pick(l.Awards, base.Awards),
		Activities: pick(l.Activities, base.Activities),
		Contact:    pick(l.Contact, base.Contact),
	}
}
