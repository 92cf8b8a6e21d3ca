package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var resumeSchema []byte

// ErrInvalidDocument is returned when a payload does not match the resume schema.
var ErrInvalidDocument = errors.New("invalid resume document")

var schemaLoader = gojsonschema.NewBytesLoader(resumeSchema)

// Validate validates raw JSON bytes against the resume schema.
func Validate(raw []byte) error {
	return validate(gojsonschema.NewBytesLoader(raw))
}

func validate(doc gojsonschema.JSONLoader) error {
	res, err := gojsonschema.Validate(schemaLoader, doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// Decode validates raw against the schema and unmarshals it. Lists the
// producer omitted come back empty rather than nil.
func Decode(raw []byte) (ResumeDocument, error) {
	var doc ResumeDocument
	if err := Validate(raw); err != nil {
		return doc, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc.normalize()
	return doc, nil
}

func (d *ResumeDocument) normalize() {
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Languages == nil {
		d.Languages = []string{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Awards == nil {
		d.Awards = []Award{}
	}
	if d.Activities == nil {
		d.Activities = []Activity{}
	}
}
