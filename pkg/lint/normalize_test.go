package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrdersFrontmatter(t *testing.T) {
	input := "---\ndescription: Out of order\nname: my-skill\n---\n\nBody.\n"

	out, err := Normalize(input)
	require.NoError(t, err)

	nameIdx := strings.Index(out, "name:")
	descIdx := strings.Index(out, "description:")
	require.NotEqual(t, -1, nameIdx)
	require.NotEqual(t, -1, descIdx)
	assert.Less(t, nameIdx, descIdx)
	assert.Contains(t, out, "Body.")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestNormalizeIdempotent(t *testing.T) {
	input := "---\ndescription: Out of order\nname: my-skill\n---\n\nBody.\n"

	once, err := Normalize(input)
	require.NoError(t, err)
	twice, err := Normalize(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizeLineEndings(t *testing.T) {
	out, err := Normalize("# No frontmatter\r\nSecond line")
	require.NoError(t, err)
	assert.Equal(t, "# No frontmatter\nSecond line\n", out)
}

func TestNormalizeLeavesBrokenFrontmatterAlone(t *testing.T) {
	input := "---\nname: x\nunknown-key: y\n---\n\nBody.\n"
	out, err := Normalize(input)
	require.NoError(t, err)
	assert.Equal(t, input, out)
}

func TestDiff(t *testing.T) {
	t.Run("already canonical", func(t *testing.T) {
		input := "---\ndescription: d\nname: n\n---\n\nBody.\n"
		canonical, err := Normalize(input)
		require.NoError(t, err)

		diff, err := Diff("SKILL.md", canonical)
		require.NoError(t, err)
		assert.Empty(t, diff)
	})

	t.Run("needs normalization", func(t *testing.T) {
		diff, err := Diff("SKILL.md", "---\ndescription: d\nname: n\n---\n\nBody.\n")
		require.NoError(t, err)
		assert.Contains(t, diff, "a/SKILL.md")
		assert.Contains(t, diff, "b/SKILL.md")
		assert.Contains(t, diff, "+name: n")
	})
}
