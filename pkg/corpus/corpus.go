// Package corpus ships the builtin skill documents embedded into the
// binary. Each skill is a directory holding a SKILL.md manifest plus
// reference documents, laid out exactly as a skills directory on disk so
// hosts and the installer can treat both uniformly.
package corpus

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/obie/skills/pkg/skill"
)

//go:embed skills
var builtinFS embed.FS

const skillsRoot = "skills"

// FS returns the embedded skills tree rooted at the skills directory
func FS() fs.FS {
	sub, err := fs.Sub(builtinFS, skillsRoot)
	if err != nil {
		// The embedded tree always contains skills/
		panic(err)
	}
	return sub
}

// Names returns the sorted names of all builtin skills
func Names() []string {
	entries, err := fs.ReadDir(builtinFS, skillsRoot)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Load parses a builtin skill by name
func Load(name string) (*skill.Skill, error) {
	manifest := path.Join(skillsRoot, name, skill.SkillFileName)
	content, err := builtinFS.ReadFile(manifest)
	if err != nil {
		return nil, errors.Errorf("builtin skill '%s' not found", name)
	}

	s, err := skill.Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "builtin skill '%s' is malformed", name)
	}

	s.Path = manifest
	s.Directory = path.Join(skillsRoot, name)
	return s, nil
}

// LoadAll parses every builtin skill
func LoadAll() (map[string]*skill.Skill, error) {
	skills := make(map[string]*skill.Skill)
	for _, name := range Names() {
		s, err := Load(name)
		if err != nil {
			return nil, err
		}
		skills[name] = s
	}
	return skills, nil
}

// Files returns the sorted relative paths of all files belonging to a
// builtin skill, e.g. ["SKILL.md", "references/forms.md"].
func Files(name string) ([]string, error) {
	root := path.Join(skillsRoot, name)
	if _, err := fs.Stat(builtinFS, root); err != nil {
		return nil, errors.Errorf("builtin skill '%s' not found", name)
	}

	var files []string
	err := fs.WalkDir(builtinFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk builtin skill '%s'", name)
	}

	sort.Strings(files)
	return files, nil
}

// Digest computes a stable SHA-256 digest over all files of a builtin
// skill. It is used to detect drift between installed copies and the
// embedded corpus.
func Digest(name string) (string, error) {
	files, err := Files(name)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	for _, rel := range files {
		content, err := builtinFS.ReadFile(path.Join(skillsRoot, name, rel))
		if err != nil {
			return "", errors.Wrapf(err, "failed to read '%s'", rel)
		}
		h.Write([]byte(rel))
		h.Write([]byte{0})
		h.Write(content)
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestDir computes the same digest shape as Digest over an installed
// skill directory on disk.
func DigestDir(dir string) (string, error) {
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
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to walk '%s'", dir)
	}
	sort.Strings(files)

	h := sha256.New()
	for _, rel := range files {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return "", errors.Wrapf(err, "failed to read '%s'", rel)
		}
		h.Write([]byte(rel))
		h.Write([]byte{0})
		h.Write(content)
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Install extracts a builtin skill into destDir/<name>. It refuses to
// overwrite an existing skill directory unless force is set.
func Install(name, destDir string, force bool) (string, error) {
	files, err := Files(name)
	if err != nil {
		return "", err
	}

	target := filepath.Join(destDir, name)
	if _, err := os.Stat(target); err == nil && !force {
		return "", errors.Errorf("skill '%s' already exists at %s", name, target)
	}

	for _, rel := range files {
		content, err := builtinFS.ReadFile(path.Join(skillsRoot, name, rel))
		if err != nil {
			return "", errors.Wrapf(err, "failed to read '%s'", rel)
		}

		dest := filepath.Join(target, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", errors.Wrap(err, "failed to create skill directory")
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return "", errors.Wrapf(err, "failed to write '%s'", dest)
		}
	}

	return target, nil
}
