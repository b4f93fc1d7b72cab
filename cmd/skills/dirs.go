package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/obie/skills/pkg/skill"
)

// getSkillsDir returns the local or global skills directory
func getSkillsDir(global bool) (string, error) {
	if global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to get user home directory")
		}
		return filepath.Join(homeDir, ".claude", "skills"), nil
	}
	return filepath.Join(".claude", "skills"), nil
}

// newDiscovery builds a Discovery honoring the skills.dirs config key,
// falling back to the default directory chain.
func newDiscovery() (*skill.Discovery, error) {
	if dirs := viper.GetStringSlice("skills.dirs"); len(dirs) > 0 {
		return skill.NewDiscovery(skill.WithSkillDirs(dirs...))
	}
	return skill.NewDiscovery()
}

// indexDBPath returns the path of the skill index database
func indexDBPath() (string, error) {
	if path := viper.GetString("index.db_path"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(homeDir, ".skills", "index.db"), nil
}
