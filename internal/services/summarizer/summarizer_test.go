package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	owner, repo, err := ParseRepoURL("https://github.com/uptrace/bun")
	require.NoError(t, err)
	assert.Equal(t, "uptrace", owner)
	assert.Equal(t, "bun", repo)

	owner, repo, err = ParseRepoURL("https://github.com/uptrace/bun.git")
	require.NoError(t, err)
	assert.Equal(t, "uptrace", owner)
	assert.Equal(t, "bun", repo)

	_, _, err = ParseRepoURL("https://github.com/uptrace/bun/tree/main/dialect")
	require.NoError(t, err)

	for _, bad := range []string{"", "not a url", "https://github.com/", "https://github.com/onlyowner"} {
		_, _, err := ParseRepoURL(bad)
		assert.ErrorIs(t, err, ErrInvalidRepoURL, "url: %q", bad)
	}
}

func TestParseSummary(t *testing.T) {
	summary, err := parseSummary(`{"summary": "A fast ORM.", "cool_facts": ["fact one", "fact two"]}`)
	require.NoError(t, err)
	assert.Equal(t, "A fast ORM.", summary.Summary)
	assert.Equal(t, []string{"fact one", "fact two"}, summary.CoolFacts)
}

func TestParseSummaryWithSurroundingProse(t *testing.T) {
	summary, err := parseSummary("Here is the JSON you asked for:\n" +
		`{"summary": "A fast ORM.", "cool_facts": ["fact one", "fact two"]}` + "\nHope that helps!")
	require.NoError(t, err)
	assert.Equal(t, "A fast ORM.", summary.Summary)
}

func TestParseSummaryRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no json":       "sorry, I cannot help with that",
		"empty summary": `{"summary": "  ", "cool_facts": ["a"]}`,
		"no facts":      `{"summary": "ok", "cool_facts": ["", "  "]}`,
		"too long":      `{"summary": "` + strings.Repeat("x", 2001) + `", "cool_facts": ["a"]}`,
	}
	for name, content := range cases {
		_, err := parseSummary(content)
		assert.ErrorIs(t, err, ErrBadSummary, name)
	}
}

func TestParseSummaryTrimsExtraFacts(t *testing.T) {
	summary, err := parseSummary(`{"summary": "ok", "cool_facts": ["a", "b", "c", "d", "e"]}`)
	require.NoError(t, err)
	assert.Len(t, summary.CoolFacts, 3)
}

func TestBuildPromptEmbedsReadme(t *testing.T) {
	prompt := buildPrompt("## My Project\nIt does things.")
	assert.Contains(t, prompt, "## My Project")
	assert.Contains(t, prompt, "cool_facts")
}
