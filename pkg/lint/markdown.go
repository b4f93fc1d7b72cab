package lint

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// lintMarkdown walks a document's AST checking internal links and fenced
// code blocks. Files linked from the document are recorded in linked,
// keyed by slash-separated path relative to the skill directory.
func (l *Linter) lintMarkdown(dir, path string, source []byte, result *Result, linked map[string]bool) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Link:
			l.checkDestination(dir, path, source, n, string(node.Destination), result, linked)
		case *ast.Image:
			l.checkDestination(dir, path, source, n, string(node.Destination), result, linked)
		case *ast.FencedCodeBlock:
			if node.Language(source) == nil {
				result.Findings = append(result.Findings, Finding{
					Rule:     "code/language",
					Severity: SeverityError,
					Path:     path,
					Line:     nodeLine(source, n),
					Message:  "fenced code block is missing a language tag",
				})
			}
		}

		return ast.WalkContinue, nil
	})
}

// checkDestination validates a link or image destination
func (l *Linter) checkDestination(dir, path string, source []byte, n ast.Node, dest string, result *Result, linked map[string]bool) {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return
	}
	if strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return
	}

	// Drop fragment and query before resolving
	if idx := strings.IndexAny(dest, "#?"); idx != -1 {
		dest = dest[:idx]
	}
	if dest == "" {
		return
	}

	if filepath.IsAbs(dest) {
		result.Findings = append(result.Findings, Finding{
			Rule:     "links/absolute",
			Severity: SeverityError,
			Path:     path,
			Line:     nodeLine(source, n),
			Message:  fmt.Sprintf("link '%s' must be relative to the skill directory", dest),
		})
		return
	}

	// Relative links resolve from the linking document's directory
	target := filepath.Join(filepath.Dir(path), filepath.FromSlash(dest))

	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		result.Findings = append(result.Findings, Finding{
			Rule:     "links/escape",
			Severity: SeverityError,
			Path:     path,
			Line:     nodeLine(source, n),
			Message:  fmt.Sprintf("link '%s' resolves outside the skill directory", dest),
		})
		return
	}

	if _, err := os.Stat(target); err != nil {
		result.Findings = append(result.Findings, Finding{
			Rule:     "links/broken",
			Severity: SeverityError,
			Path:     path,
			Line:     nodeLine(source, n),
			Message:  fmt.Sprintf("link target '%s' does not exist", dest),
		})
		return
	}

	linked[filepath.ToSlash(rel)] = true
}

// nodeLine returns the 1-based source line of a node, walking up to the
// nearest ancestor that carries line segments.
func nodeLine(source []byte, n ast.Node) int {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Type() == ast.TypeBlock && cur.Lines().Len() > 0 {
			return offsetToLine(source, cur.Lines().At(0).Start)
		}
	}
	return 0
}

func offsetToLine(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
