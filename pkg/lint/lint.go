// Package lint validates skill directories: frontmatter shape, naming,
// internal link integrity, and code fence hygiene. Findings carry a rule
// id and location so hosts and CI can filter on them.
package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/obie/skills/pkg/skill"
)

// Severity classifies a finding
type Severity string

const (
	// SeverityError findings fail a lint run
	SeverityError Severity = "error"
	// SeverityWarning findings are reported but do not fail the run
	SeverityWarning Severity = "warning"
)

// Finding is a single lint diagnostic
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s [%s]", f.Path, f.Line, f.Severity, f.Message, f.Rule)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", f.Path, f.Severity, f.Message, f.Rule)
}

// Result holds the findings for a single skill directory
type Result struct {
	Skill    string    `json:"skill"`
	Dir      string    `json:"dir"`
	Findings []Finding `json:"findings"`
}

// HasErrors reports whether any finding has error severity
func (r *Result) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// MaxDescriptionLength is the default cap on frontmatter descriptions,
// matching the limit skill-consuming hosts enforce.
const MaxDescriptionLength = 1024

var namePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Linter validates skill directories
type Linter struct {
	includeGlobs   []string
	maxDescription int
}

// Option configures a Linter
type Option func(*Linter)

// WithIncludeGlobs restricts which files inside a skill directory are
// linted, using doublestar patterns relative to the skill directory.
func WithIncludeGlobs(globs ...string) Option {
	return func(l *Linter) {
		l.includeGlobs = globs
	}
}

// WithMaxDescriptionLength overrides the description length cap
func WithMaxDescriptionLength(n int) Option {
	return func(l *Linter) {
		l.maxDescription = n
	}
}

// New creates a Linter
func New(opts ...Option) *Linter {
	l := &Linter{
		includeGlobs:   []string{"**/*.md"},
		maxDescription: MaxDescriptionLength,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LintDir lints a single skill directory
func (l *Linter) LintDir(dir string) (*Result, error) {
	result := &Result{
		Skill: filepath.Base(dir),
		Dir:   dir,
	}

	manifestPath := filepath.Join(dir, skill.SkillFileName)
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read '%s'", manifestPath)
	}

	l.lintManifest(dir, manifestPath, content, result)

	files, err := l.selectFiles(dir)
	if err != nil {
		return nil, err
	}

	linked := make(map[string]bool)
	for _, rel := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read '%s'", path)
		}

		l.lintMarkdown(dir, path, data, result, linked)
	}

	l.checkOrphans(dir, files, linked, result)

	sort.SliceStable(result.Findings, func(i, j int) bool {
		if result.Findings[i].Path != result.Findings[j].Path {
			return result.Findings[i].Path < result.Findings[j].Path
		}
		return result.Findings[i].Line < result.Findings[j].Line
	})

	return result, nil
}

// LintAll lints every skill directory found directly under the given
// roots and flags duplicate skill names across them.
func (l *Linter) LintAll(roots []string) ([]*Result, error) {
	var results []*Result
	seen := make(map[string]string) // skill name -> first dir

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			dir := filepath.Join(root, entry.Name())
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(dir, skill.SkillFileName)); err != nil {
				continue
			}

			result, err := l.LintDir(dir)
			if err != nil {
				return nil, err
			}

			name := result.Skill
			if first, dup := seen[name]; dup {
				result.Findings = append(result.Findings, Finding{
					Rule:     "name/duplicate",
					Severity: SeverityError,
					Path:     filepath.Join(dir, skill.SkillFileName),
					Message:  fmt.Sprintf("skill name '%s' already defined in %s", name, first),
				})
			} else {
				seen[name] = dir
			}

			results = append(results, result)
		}
	}

	return results, nil
}

// Err aggregates all error-severity findings into a single error, or nil
// when the results are clean.
func Err(results []*Result) error {
	var merr *multierror.Error
	for _, r := range results {
		for _, f := range r.Findings {
			if f.Severity == SeverityError {
				merr = multierror.Append(merr, errors.New(f.String()))
			}
		}
	}
	return merr.ErrorOrNil()
}

// lintManifest checks the frontmatter block of SKILL.md
func (l *Linter) lintManifest(dir, path string, content []byte, result *Result) {
	front, _, ok := skill.SplitFrontmatter(string(content))
	if !ok {
		result.Findings = append(result.Findings, Finding{
			Rule:     "frontmatter/missing",
			Severity: SeverityError,
			Path:     path,
			Line:     1,
			Message:  "SKILL.md must start with a YAML frontmatter block",
		})
		return
	}

	var meta skill.Metadata
	dec := yaml.NewDecoder(strings.NewReader(front))
	dec.KnownFields(true)
	if err := dec.Decode(&meta); err != nil {
		result.Findings = append(result.Findings, Finding{
			Rule:     "frontmatter/invalid",
			Severity: SeverityError,
			Path:     path,
			Line:     1,
			Message:  fmt.Sprintf("frontmatter is not valid: %v", err),
		})
		return
	}

	if meta.Name == "" {
		result.Findings = append(result.Findings, Finding{
			Rule:     "frontmatter/name-required",
			Severity: SeverityError,
			Path:     path,
			Line:     1,
			Message:  "frontmatter must set 'name'",
		})
	} else {
		if !namePattern.MatchString(meta.Name) {
			result.Findings = append(result.Findings, Finding{
				Rule:     "name/format",
				Severity: SeverityError,
				Path:     path,
				Line:     1,
				Message:  fmt.Sprintf("name '%s' must be lowercase letters, digits, and hyphens", meta.Name),
			})
		}
		if meta.Name != filepath.Base(dir) {
			result.Findings = append(result.Findings, Finding{
				Rule:     "name/dir-mismatch",
				Severity: SeverityError,
				Path:     path,
				Line:     1,
				Message:  fmt.Sprintf("name '%s' does not match directory '%s'", meta.Name, filepath.Base(dir)),
			})
		}
	}

	if meta.Description == "" {
		result.Findings = append(result.Findings, Finding{
			Rule:     "frontmatter/description-required",
			Severity: SeverityError,
			Path:     path,
			Line:     1,
			Message:  "frontmatter must set 'description'",
		})
	} else if n := utf8.RuneCountInString(meta.Description); n > l.maxDescription {
		result.Findings = append(result.Findings, Finding{
			Rule:     "description/length",
			Severity: SeverityError,
			Path:     path,
			Line:     1,
			Message:  fmt.Sprintf("description is %d characters, max is %d", n, l.maxDescription),
		})
	}
}

// selectFiles returns the relative paths of markdown files to lint
func (l *Linter) selectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range l.includeGlobs {
			matched, err := doublestar.Match(pattern, rel)
			if err != nil {
				return errors.Wrapf(err, "invalid include glob '%s'", pattern)
			}
			if matched {
				files = append(files, rel)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk '%s'", dir)
	}

	sort.Strings(files)
	return files, nil
}

// checkOrphans flags markdown files no document links to
func (l *Linter) checkOrphans(dir string, files []string, linked map[string]bool, result *Result) {
	for _, rel := range files {
		if rel == skill.SkillFileName {
			continue
		}
		if !linked[rel] {
			result.Findings = append(result.Findings, Finding{
				Rule:     "refs/orphan",
				Severity: SeverityWarning,
				Path:     filepath.Join(dir, filepath.FromSlash(rel)),
				Message:  fmt.Sprintf("'%s' is not linked from any document in the skill", rel),
			})
		}
	}
}
