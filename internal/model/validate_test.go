package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Valid(t *testing.T) {
	raw := []byte(`{
		"contact": {"name": "Jane Doe", "email": "jane@example.com", "phone": "", "address": ""},
		"experience": [{"id": "e1", "jobTitle": "Engineer", "company": "Acme", "startDate": "2020", "endDate": "2023", "description": "- Led team"}],
		"skills": ["Go", "SQL"]
	}`)

	doc, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", doc.Contact.Name)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "Engineer", doc.Experience[0].JobTitle)
	assert.Equal(t, []string{"Go", "SQL"}, doc.Skills)
	assert.NotNil(t, doc.Projects)
	assert.Empty(t, doc.Projects)
	assert.NotNil(t, doc.Languages)
}

func TestDecode_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing contact":     `{"summary": "hi"}`,
		"skills not strings":  `{"contact": {"name": "x"}, "skills": [1, 2]}`,
		"experience not list": `{"contact": {"name": "x"}, "experience": {"id": "e1"}}`,
		"not json":            `{"contact":`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate([]byte(`{"contact": {"name": "Jane"}}`)))
	assert.ErrorIs(t, Validate([]byte(`{"contact": "Jane"}`)), ErrInvalidDocument)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, ResumeDocument{}.IsEmpty())
	assert.True(t, ResumeDocument{Contact: Contact{Name: "  ", Email: "a@b.c"}}.IsEmpty())
	assert.False(t, ResumeDocument{Contact: Contact{Name: "Jane"}}.IsEmpty())
	assert.False(t, ResumeDocument{Skills: []string{"Go"}}.IsEmpty())
}
