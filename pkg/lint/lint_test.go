package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func findRules(result *Result) []string {
	rules := make([]string, 0, len(result.Findings))
	for _, f := range result.Findings {
		rules = append(rules, f.Rule)
	}
	return rules
}

const validSkill = `---
name: valid-skill
description: A well formed skill
---

# Valid Skill

See [the reference](references/extra.md) for details.

` + "```ruby\nputs \"hello\"\n```\n"

func TestLintDirCleanSkill(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "valid-skill")
	writeFile(t, skillDir, "SKILL.md", validSkill)
	writeFile(t, skillDir, "references/extra.md", "# Extra\n\nMore detail.\n")

	result, err := New().LintDir(skillDir)
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
	assert.False(t, result.HasErrors())
	assert.Equal(t, "valid-skill", result.Skill)
}

func TestLintDirMissingFrontmatter(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "no-front")
	writeFile(t, skillDir, "SKILL.md", "# Just a heading\n")

	result, err := New().LintDir(skillDir)
	require.NoError(t, err)
	assert.Contains(t, findRules(result), "frontmatter/missing")
	assert.True(t, result.HasErrors())
}

func TestLintDirUnknownFrontmatterField(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "bad-field")
	writeFile(t, skillDir, "SKILL.md", "---\nname: bad-field\ndescription: x\ncolour: green\n---\n\nBody.\n")

	result, err := New().LintDir(skillDir)
	require.NoError(t, err)
	assert.Contains(t, findRules(result), "frontmatter/invalid")
}

func TestLintDirRequiredFields(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "empty-fields")
	writeFile(t, skillDir, "SKILL.md", "---\nname: \"\"\ndescription: \"\"\n---\n\nBody.\n")

	result, err := New().LintDir(skillDir)
	require.NoError(t, err)
	rules := findRules(result)
	assert.Contains(t, rules, "frontmatter/name-required")
	assert.Contains(t, rules, "frontmatter/description-required")
}

func TestLintDirNameRules(t *testing.T) {
	t.Run("bad format", func(t *testing.T) {
		tmpDir := t.TempDir()
		skillDir := filepath.Join(tmpDir, "BadName")
		writeFile(t, skillDir, "SKILL.md", "---\nname: BadName\ndescription: x\n---\n\nBody.\n")

		result, err := New().LintDir(skillDir)
		require.NoError(t, err)
		assert.Contains(t, findRules(result), "name/format")
	})

	t.Run("dir mismatch", func(t *testing.T) {
		tmpDir := t.TempDir()
		skillDir := filepath.Join(tmpDir, "actual-dir")
		writeFile(t, skillDir, "SKILL.md", "---\nname: other-name\ndescription: x\n---\n\nBody.\n")

		result, err := New().LintDir(skillDir)
		require.NoError(t, err)
		assert.Contains(t, findRules(result), "name/dir-mismatch")
	})
}

func TestLintDirDescriptionLength(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "long-desc")

	desc := make([]byte, 40)
	for i := range desc {
		desc[i] = 'x'
	}
	writeFile(t, skillDir, "SKILL.md", "---\nname: long-desc\ndescription: "+string(desc)+"\n---\n\nBody.\n")

	result, err := New(WithMaxDescriptionLength(10)).LintDir(skillDir)
	require.NoError(t, err)
	assert.Contains(t, findRules(result), "description/length")
}

func TestLintDirDescriptionLengthCountsRunes(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "accented")

	// 5 runes but 10 bytes; must not trip a 5-character cap
	writeFile(t, skillDir, "SKILL.md", "---\nname: accented\ndescription: ééééé\n---\n\nBody.\n")

	result, err := New(WithMaxDescriptionLength(5)).LintDir(skillDir)
	require.NoError(t, err)
	assert.NotContains(t, findRules(result), "description/length")

	result, err = New(WithMaxDescriptionLength(4)).LintDir(skillDir)
	require.NoError(t, err)
	assert.Contains(t, findRules(result), "description/length")
}

func TestLintDirLinks(t *testing.T) {
	t.Run("broken link", func(t *testing.T) {
		tmpDir := t.TempDir()
		skillDir := filepath.Join(tmpDir, "broken-link")
		writeFile(t, skillDir, "SKILL.md", "---\nname: broken-link\ndescription: x\n---\n\nSee [missing](references/missing.md).\n")

		result, err := New().LintDir(skillDir)
		require.NoError(t, err)

		rules := findRules(result)
		assert.Contains(t, rules, "links/broken")

		for _, f := range result.Findings {
			if f.Rule == "links/broken" {
				assert.Equal(t, 6, f.Line)
			}
		}
	})

	t.Run("escaping link", func(t *testing.T) {
		tmpDir := t.TempDir()
		skillDir := filepath.Join(tmpDir, "escape-link")
		writeFile(t, skillDir, "SKILL.md", "---\nname: escape-link\ndescription: x\n---\n\nSee [outside](../other/file.md).\n")
		writeFile(t, tmpDir, "other/file.md", "exists but out of bounds\n")

		result, err := New().LintDir(skillDir)
		require.NoError(t, err)
		assert.Contains(t, findRules(result), "links/escape")
	})

	t.Run("external links ignored", func(t *testing.T) {
		tmpDir := t.TempDir()
		skillDir := filepath.Join(tmpDir, "ext-link")
		writeFile(t, skillDir, "SKILL.md", "---\nname: ext-link\ndescription: x\n---\n\nSee [rfc](https://example.com/rfc) and [anchor](#section).\n")

		result, err := New().LintDir(skillDir)
		require.NoError(t, err)
		assert.Empty(t, result.Findings)
	})

	t.Run("links from reference files", func(t *testing.T) {
		tmpDir := t.TempDir()
		skillDir := filepath.Join(tmpDir, "ref-link")
		writeFile(t, skillDir, "SKILL.md", "---\nname: ref-link\ndescription: x\n---\n\nSee [ref](references/a.md).\n")
		writeFile(t, skillDir, "references/a.md", "See [gone](missing.md).\n")

		result, err := New().LintDir(skillDir)
		require.NoError(t, err)
		assert.Contains(t, findRules(result), "links/broken")
	})
}

func TestLintDirCodeFences(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "fences")
	writeFile(t, skillDir, "SKILL.md", "---\nname: fences\ndescription: x\n---\n\n```\nuntagged\n```\n\n```go\ntagged := true\n```\n")

	result, err := New().LintDir(skillDir)
	require.NoError(t, err)

	count := 0
	for _, f := range result.Findings {
		if f.Rule == "code/language" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLintDirOrphans(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "orphans")
	writeFile(t, skillDir, "SKILL.md", "---\nname: orphans\ndescription: x\n---\n\nNo links here.\n")
	writeFile(t, skillDir, "references/lonely.md", "# Lonely\n")

	result, err := New().LintDir(skillDir)
	require.NoError(t, err)

	rules := findRules(result)
	assert.Contains(t, rules, "refs/orphan")
	// Orphans are warnings, not errors
	assert.False(t, result.HasErrors())
}

func TestLintAllDetectsDuplicates(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()

	content := "---\nname: shared\ndescription: x\n---\n\nBody.\n"
	writeFile(t, filepath.Join(root1, "shared"), "SKILL.md", content)
	writeFile(t, filepath.Join(root2, "shared"), "SKILL.md", content)

	results, err := New().LintAll([]string{root1, root2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	var dupes int
	for _, r := range results {
		for _, f := range r.Findings {
			if f.Rule == "name/duplicate" {
				dupes++
			}
		}
	}
	assert.Equal(t, 1, dupes)
}

func TestErrAggregation(t *testing.T) {
	clean := []*Result{{Skill: "a"}}
	assert.NoError(t, Err(clean))

	dirty := []*Result{{
		Skill: "b",
		Findings: []Finding{
			{Rule: "links/broken", Severity: SeverityError, Path: "b/SKILL.md", Message: "x"},
			{Rule: "refs/orphan", Severity: SeverityWarning, Path: "b/extra.md", Message: "y"},
		},
	}}
	err := Err(dirty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "links/broken")
	assert.NotContains(t, err.Error(), "refs/orphan")
}
