package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	en := For("en")
	assert.Equal(t, "en", en.Language)
	assert.Equal(t, "Experience", en.Experience)
	assert.Equal(t, "Activities", en.Activities)

	mn := For("mn-MN")
	assert.Equal(t, "mn", mn.Language)
	assert.Equal(t, "Боловсрол", mn.Education)

	assert.Equal(t, en, For("fr"))
	assert.Equal(t, en, For(""))
	assert.ElementsMatch(t, []string{"en", "mn"}, Builtin().Languages())
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte("de:\n  skills: Fähigkeiten\n"))
	require.NoError(t, err)
	assert.Equal(t, "de", c["de"].Language)
	assert.Equal(t, "Fähigkeiten", c.For("de").Skills)

	_, err = Parse([]byte("en: [unclosed"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	partial := Labels{Skills: "Stack", Awards: "  "}
	got := partial.Merge(For("en"))
	assert.Equal(t, "Stack", got.Skills)
	assert.Equal(t, "Awards", got.Awards)
	assert.Equal(t, "Experience", got.Experience)
	assert.Equal(t, "en", got.Language)
}
