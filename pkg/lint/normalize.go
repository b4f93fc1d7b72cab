package lint

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/obie/skills/pkg/skill"
)

// Normalize rewrites SKILL.md content into canonical form: LF line
// endings, frontmatter fields in declaration order, and a single trailing
// newline. Content without a complete frontmatter block is returned
// unchanged apart from line-ending fixes.
func Normalize(content string) (string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	front, body, ok := skill.SplitFrontmatter(content)
	if !ok {
		return ensureTrailingNewline(content), nil
	}

	var meta skill.Metadata
	dec := yaml.NewDecoder(strings.NewReader(front))
	dec.KnownFields(true)
	if err := dec.Decode(&meta); err != nil {
		// Unknown fields or broken YAML: leave the frontmatter alone,
		// lint reports it separately
		return ensureTrailingNewline(content), nil
	}

	marshaled, err := yaml.Marshal(&meta)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal frontmatter")
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(marshaled)
	b.WriteString("---\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(body, "\n"))
		b.WriteString("\n")
	}

	return b.String(), nil
}

// Diff returns a unified diff between the original content and its
// normalized form, or "" when the content is already canonical.
func Diff(path, content string) (string, error) {
	normalized, err := Normalize(content)
	if err != nil {
		return "", err
	}
	if normalized == content {
		return "", nil
	}
	return udiff.Unified("a/"+path, "b/"+path, content, normalized), nil
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
