package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/obie/skills/pkg/lint"
	"github.com/obie/skills/pkg/logger"
	"github.com/obie/skills/pkg/presenter"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	IgnoreDirs   []string
	DebounceTime int
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		IgnoreDirs:   []string{".git", "node_modules"},
		DebounceTime: 500,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

// FileEvent represents a file system event with additional metadata
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch skill directories and re-lint on change",
	Long: `Continuously monitors the configured skill directories and re-lints
the affected skill whenever one of its files changes.

Examples:
  skills watch
  skills watch --debounce 1000`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getWatchConfigFromFlags(cmd)

		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		runWatchCommand(cmd.Context(), config)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().StringSliceP("ignore", "i", defaults.IgnoreDirs, "Directories to ignore")
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	rootCmd.AddCommand(watchCmd)
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()

	if ignoreDirs, err := cmd.Flags().GetStringSlice("ignore"); err == nil {
		config.IgnoreDirs = ignoreDirs
	}
	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}

	return config
}

func runWatchCommand(ctx context.Context, config *WatchConfig) {
	discovery, err := newDiscovery()
	if err != nil {
		presenter.Error(err, "Failed to initialize skill discovery")
		os.Exit(1)
	}
	roots := discovery.Dirs()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		os.Exit(1)
	}
	defer watcher.Close()

	events := make(chan FileEvent)
	debouncedEvents := make(chan FileEvent)

	go debounceFileEvents(ctx, events, debouncedEvents, time.Duration(config.DebounceTime)*time.Millisecond)

	go func() {
		for {
			select {
			case event, ok := <-debouncedEvents:
				if !ok {
					return
				}
				presenter.Info(fmt.Sprintf("Change detected: %s (%s)", event.Path, event.Op))
				logger.G(ctx).WithFields(map[string]interface{}{
					"file":      event.Path,
					"operation": event.Op.String(),
				}).Debug("File change detected")
				relintSkill(ctx, roots, event.Path)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				skipEvent := false
				for _, ignoreDir := range config.IgnoreDirs {
					if strings.Contains(event.Name, ignoreDir+string(os.PathSeparator)) {
						skipEvent = true
						break
					}
				}
				if skipEvent {
					continue
				}

				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					events <- FileEvent{
						Path: event.Name,
						Op:   event.Op,
						Time: time.Now(),
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				presenter.Error(err, "File watcher error")
				logger.G(ctx).WithError(err).Error("Error watching files")
			case <-ctx.Done():
				return
			}
		}
	}()

	watched := 0
	for _, root := range roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if !info.IsDir() {
				return nil
			}
			for _, ignoreDir := range config.IgnoreDirs {
				if info.Name() == ignoreDir {
					return filepath.SkipDir
				}
			}
			if err := watcher.Add(path); err != nil {
				return err
			}
			watched++
			return nil
		})
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to watch %s", root))
			os.Exit(1)
		}
	}

	if watched == 0 {
		presenter.Warning("No skill directories found to watch")
		return
	}

	presenter.Info("Watching for skill changes... Press Ctrl+C to stop")
	logger.G(ctx).WithField("directories_count", watched).Info("File watcher initialized")

	<-ctx.Done()
}

// Debounce file events to prevent processing multiple rapid changes to
// the same file. The pending map is shared with the timer callbacks, so
// every access holds the mutex.
func debounceFileEvents(ctx context.Context, input <-chan FileEvent, output chan<- FileEvent, delay time.Duration) {
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	stopPending := func() {
		mu.Lock()
		defer mu.Unlock()
		for _, timer := range pending {
			timer.Stop()
		}
	}

	for {
		select {
		case event, ok := <-input:
			if !ok {
				stopPending()
				return
			}

			eventCopy := event
			mu.Lock()
			if timer, exists := pending[event.Path]; exists {
				timer.Stop()
			}
			pending[event.Path] = time.AfterFunc(delay, func() {
				mu.Lock()
				delete(pending, eventCopy.Path)
				mu.Unlock()

				select {
				case output <- eventCopy:
				case <-ctx.Done():
				}
			})
			mu.Unlock()
		case <-ctx.Done():
			stopPending()
			return
		}
	}
}

// relintSkill re-lints the skill directory containing the changed file
func relintSkill(ctx context.Context, roots []string, changed string) {
	skillDir := ""
	for _, root := range roots {
		rel, err := filepath.Rel(root, changed)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) > 0 && parts[0] != "." {
			skillDir = filepath.Join(root, parts[0])
			break
		}
	}
	if skillDir == "" {
		logger.G(ctx).WithField("file", changed).Debug("Change outside any skill directory, skipping")
		return
	}
	if _, err := os.Stat(skillDir); err != nil {
		// Skill was removed entirely
		presenter.Info(fmt.Sprintf("Skill directory %s removed", skillDir))
		return
	}

	linter := lint.New()
	result, err := linter.LintDir(skillDir)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to lint %s", skillDir))
		return
	}

	if len(result.Findings) == 0 {
		presenter.Success(fmt.Sprintf("%s: clean", skillDir))
		return
	}

	presenter.Section(fmt.Sprintf("Lint results for %s", skillDir))
	for _, f := range result.Findings {
		fmt.Println(f.String())
	}
}
