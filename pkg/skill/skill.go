// Package skill implements discovery, parsing, and filtering of agent
// skills. Skills are packaged as directories containing a SKILL.md file
// with YAML frontmatter describing the skill's purpose, plus optional
// reference documents alongside it.
package skill

// SkillFileName is the manifest file expected in every skill directory
const SkillFileName = "SKILL.md"

// Skill represents a discovered skill with its metadata
type Skill struct {
	Name        string   // Unique name from frontmatter
	Description string   // Brief description for host decision-making
	Directory   string   // Full path to the skill directory
	Path        string   // Full path to the SKILL.md manifest
	Content     string   // Body of SKILL.md (frontmatter stripped)
	Meta        Metadata // Typed frontmatter fields
}

// Metadata represents the YAML frontmatter in SKILL.md files. Only name
// and description are required; the rest mirror the fields commonly used
// by skill-consuming hosts.
type Metadata struct {
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	License      string            `yaml:"license,omitempty"`
	AllowedTools []string          `yaml:"allowed-tools,omitempty"`
	Extra        map[string]string `yaml:"metadata,omitempty"`
}
