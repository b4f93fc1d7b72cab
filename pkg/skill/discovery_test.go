package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, dir, name, description string) string {
	t.Helper()
	skillDir := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	content := "---\nname: " + name + "\ndescription: " + description + "\n---\n\nContent for " + name + ".\n"
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, SkillFileName), []byte(content), 0o644))
	return skillDir
}

func TestNewDiscovery(t *testing.T) {
	t.Run("with default dirs", func(t *testing.T) {
		discovery, err := NewDiscovery()
		require.NoError(t, err)
		assert.NotNil(t, discovery)
		assert.Len(t, discovery.skillDirs, 2)
	})

	t.Run("with custom dirs", func(t *testing.T) {
		customDirs := []string{"/tmp/skills1", "/tmp/skills2"}
		discovery, err := NewDiscovery(WithSkillDirs(customDirs...))
		require.NoError(t, err)
		assert.Equal(t, customDirs, discovery.Dirs())
	})
}

func TestDiscoverSkills(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := writeSkill(t, tmpDir, "test-skill", "A test skill for unit testing")
	writeSkill(t, tmpDir, "another-skill", "Another test skill")

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	require.NoError(t, err)
	assert.Len(t, skills, 2)

	testSkill, exists := skills["test-skill"]
	require.True(t, exists)
	assert.Equal(t, "test-skill", testSkill.Name)
	assert.Equal(t, "A test skill for unit testing", testSkill.Description)
	assert.Equal(t, skillDir, testSkill.Directory)
	assert.Contains(t, testSkill.Content, "Content for test-skill")
}

func TestDiscoverSkillsWithSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	skillsDir := filepath.Join(tmpDir, "skills")
	require.NoError(t, os.MkdirAll(skillsDir, 0o755))

	actualSkillDir := writeSkill(t, filepath.Join(tmpDir, "actual"), "symlinked-skill", "A skill accessed via symlink")
	symlinkPath := filepath.Join(skillsDir, "symlinked-skill")
	require.NoError(t, os.Symlink(actualSkillDir, symlinkPath))

	writeSkill(t, skillsDir, "regular-skill", "A regular skill directory")

	discovery, err := NewDiscovery(WithSkillDirs(skillsDir))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	require.NoError(t, err)
	assert.Len(t, skills, 2)
	assert.Equal(t, symlinkPath, skills["symlinked-skill"].Directory)
}

func TestDiscoverSkillsIgnoresBrokenSymlink(t *testing.T) {
	tmpDir := t.TempDir()
	skillsDir := filepath.Join(tmpDir, "skills")
	require.NoError(t, os.MkdirAll(skillsDir, 0o755))
	require.NoError(t, os.Symlink("/non/existent/path", filepath.Join(skillsDir, "broken")))

	discovery, err := NewDiscovery(WithSkillDirs(skillsDir))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	require.NoError(t, err)
	assert.Empty(t, skills)
}

func TestDiscoveryPrecedence(t *testing.T) {
	tmpDir1 := t.TempDir()
	tmpDir2 := t.TempDir()

	writeSkill(t, tmpDir1, "shared-skill", "From first directory")
	writeSkill(t, tmpDir2, "shared-skill", "From second directory")

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir1, tmpDir2))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	require.NoError(t, err)
	assert.Len(t, skills, 1)
	assert.Equal(t, "From first directory", skills["shared-skill"].Description)
}

func TestDiscoverPackSkills(t *testing.T) {
	tmpDir := t.TempDir()
	packSkillsDir := filepath.Join(tmpDir, "packs", "acme", "webdev", "skills")
	writeSkill(t, packSkillsDir, "pack-skill", "A skill shipped in a pack")

	d := &Discovery{}
	d.addPackDirs(filepath.Join(tmpDir, "packs"))
	require.Len(t, d.packDirs, 1)
	assert.Equal(t, "acme/webdev/", d.packDirs[0].prefix)

	skills, err := d.DiscoverSkills()
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Contains(t, skills, "acme/webdev/pack-skill")
}

func TestDiscoverSkillsSkipsInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	invalidDir := filepath.Join(tmpDir, "no-name")
	require.NoError(t, os.MkdirAll(invalidDir, 0o755))
	content := "---\ndescription: Missing name field\n---\n\nContent here.\n"
	require.NoError(t, os.WriteFile(filepath.Join(invalidDir, SkillFileName), []byte(content), 0o644))

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	require.NoError(t, err)
	assert.Empty(t, skills)
}

func TestGetSkill(t *testing.T) {
	tmpDir := t.TempDir()
	writeSkill(t, tmpDir, "test-skill", "A test skill")

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
	require.NoError(t, err)

	t.Run("existing skill", func(t *testing.T) {
		s, err := discovery.GetSkill("test-skill")
		require.NoError(t, err)
		assert.Equal(t, "test-skill", s.Name)
	})

	t.Run("non-existent skill", func(t *testing.T) {
		s, err := discovery.GetSkill("unknown")
		assert.Error(t, err)
		assert.Nil(t, s)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestListSkillNames(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"gamma", "alpha", "beta"} {
		writeSkill(t, tmpDir, name, "Skill "+name)
	}

	discovery, err := NewDiscovery(WithSkillDirs(tmpDir))
	require.NoError(t, err)

	names, err := discovery.ListSkillNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

func TestNonExistentDirectory(t *testing.T) {
	discovery, err := NewDiscovery(WithSkillDirs("/non/existent/path"))
	require.NoError(t, err)

	skills, err := discovery.DiscoverSkills()
	require.NoError(t, err)
	assert.Empty(t, skills)
}

func TestFilterByAllowlist(t *testing.T) {
	skills := map[string]*Skill{
		"skill-a": {Name: "skill-a"},
		"skill-b": {Name: "skill-b"},
		"skill-c": {Name: "skill-c"},
	}

	t.Run("empty allowlist returns all", func(t *testing.T) {
		assert.Len(t, FilterByAllowlist(skills, nil), 3)
	})

	t.Run("allowlist filters skills", func(t *testing.T) {
		result := FilterByAllowlist(skills, []string{"skill-a", "skill-c"})
		assert.Len(t, result, 2)
		assert.NotContains(t, result, "skill-b")
	})

	t.Run("unknown names are ignored", func(t *testing.T) {
		result := FilterByAllowlist(skills, []string{"skill-a", "unknown"})
		assert.Len(t, result, 1)
	})
}

func TestFilterByPattern(t *testing.T) {
	skills := map[string]*Skill{
		"frontend-conventions": {Name: "frontend-conventions"},
		"mcp-oauth":            {Name: "mcp-oauth"},
		"acme/pack/mcp-tools":  {Name: "acme/pack/mcp-tools"},
	}

	t.Run("empty pattern returns all", func(t *testing.T) {
		result, err := FilterByPattern(skills, "")
		require.NoError(t, err)
		assert.Len(t, result, 3)
	})

	t.Run("prefix pattern", func(t *testing.T) {
		result, err := FilterByPattern(skills, "mcp-*")
		require.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Contains(t, result, "mcp-oauth")
	})

	t.Run("separator is respected", func(t *testing.T) {
		result, err := FilterByPattern(skills, "*")
		require.NoError(t, err)
		assert.Len(t, result, 2, "pack skills need an explicit path pattern")
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := FilterByPattern(skills, "[")
		assert.Error(t, err)
	})
}
