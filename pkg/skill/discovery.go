package skill

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Discovery handles skill discovery from configured directories
type Discovery struct {
	skillDirs []string
	packDirs  []packDirConfig
}

// packDirConfig represents a skill pack directory with its name prefix
type packDirConfig struct {
	dir    string
	prefix string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithSkillDirs sets custom skill directories
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithDefaultDirs initializes with the default skill directories.
// Repo-local directories take precedence over user-global ones.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./.claude/skills",
			filepath.Join(homeDir, ".claude", "skills"),
		}

		d.packDirs = []packDirConfig{}
		d.addPackDirs("./.claude/packs")
		d.addPackDirs(filepath.Join(homeDir, ".claude", "packs"))

		return nil
	}
}

// addPackDirs scans a packs directory and registers every pack's skills
// directory. Supports nested org/repo directory structure.
func (d *Discovery) addPackDirs(packsDir string) {
	_ = filepath.Walk(packsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}

		skillsDir := filepath.Join(path, "skills")
		if _, err := os.Stat(skillsDir); err != nil {
			return nil
		}

		relPath, err := filepath.Rel(packsDir, path)
		if err != nil {
			return nil
		}

		packName := filepath.ToSlash(relPath)
		d.packDirs = append(d.packDirs, packDirConfig{
			dir:    skillsDir,
			prefix: packName + "/",
		})

		return filepath.SkipDir
	})
}

// NewDiscovery creates a new skill discovery instance
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(d); err != nil {
			return nil, err
		}
	} else {
		for _, opt := range opts {
			if err := opt(d); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// Dirs returns the configured standalone skill directories
func (d *Discovery) Dirs() []string {
	return d.skillDirs
}

// DiscoverSkills finds all available skills from configured directories.
// When the same name appears in multiple directories the first one wins.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	for _, dir := range d.skillDirs {
		d.discoverSkillsFromDir(dir, "", skills)
	}

	for _, packDir := range d.packDirs {
		d.discoverSkillsFromDir(packDir.dir, packDir.prefix, skills)
	}

	return skills, nil
}

// discoverSkillsFromDir discovers skills from a directory with an optional
// name prefix
func (d *Discovery) discoverSkillsFromDir(dir, prefix string, skills map[string]*Skill) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		// Stat follows symlinks so symlinked skill dirs work
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skillPath := filepath.Join(entryPath, SkillFileName)
		skill, err := ParseFile(skillPath)
		if err != nil {
			continue
		}

		skillName := skill.Name
		if prefix != "" {
			skillName = prefix + skill.Name
		}

		if _, exists := skills[skillName]; !exists {
			skill.Name = skillName
			skill.Directory = entryPath
			skills[skillName] = skill
		}
	}
}

// GetSkill returns a specific skill by name
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return skill, nil
}

// ListSkillNames returns the sorted names of all available skills
func (d *Discovery) ListSkillNames() ([]string, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// FilterByAllowlist filters skills by an allowlist of names.
// If the allowlist is empty, all skills are returned.
func FilterByAllowlist(skills map[string]*Skill, allowed []string) map[string]*Skill {
	if len(allowed) == 0 {
		return skills
	}

	filtered := make(map[string]*Skill)
	for _, name := range allowed {
		if skill, exists := skills[name]; exists {
			filtered[name] = skill
		}
	}
	return filtered
}

// FilterByPattern filters skills whose names match the given glob pattern,
// e.g. "frontend-*" or "acme/*". An empty pattern returns all skills.
func FilterByPattern(skills map[string]*Skill, pattern string) (map[string]*Skill, error) {
	if pattern == "" {
		return skills, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, errors.Wrapf(err, "invalid skill name pattern '%s'", pattern)
	}

	filtered := make(map[string]*Skill)
	for name, s := range skills {
		if g.Match(name) {
			filtered[name] = s
		}
	}
	return filtered, nil
}
