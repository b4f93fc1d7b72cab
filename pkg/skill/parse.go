package skill

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// Parse parses SKILL.md content into a Skill. The frontmatter is parsed
// twice: once through goldmark-meta for the generic metadata map the host
// convention requires, and once strictly into Metadata for typed access.
func Parse(content []byte) (*Skill, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	front, body, _ := SplitFrontmatter(string(content))

	var typed Metadata
	if err := yaml.Unmarshal([]byte(front), &typed); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}

	return &Skill{
		Name:        name,
		Description: description,
		Content:     body,
		Meta:        typed,
	}, nil
}

// ParseFile loads and parses a single SKILL.md file
func ParseFile(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	skill, err := Parse(content)
	if err != nil {
		return nil, err
	}

	skill.Path = path
	return skill, nil
}

// SplitFrontmatter splits content into the raw YAML frontmatter and the
// markdown body. ok is false when no complete frontmatter block exists,
// in which case body is the full content.
func SplitFrontmatter(content string) (front, body string, ok bool) {
	if !strings.HasPrefix(content, "---") {
		return "", content, false
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return "", content, false
	}

	front = strings.Join(lines[1:frontmatterEnd], "\n")
	body = strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
	return front, body, true
}
