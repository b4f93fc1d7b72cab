package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
)

func TestDebounceFileEventsCoalesces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := make(chan FileEvent)
	output := make(chan FileEvent, 16)

	go debounceFileEvents(ctx, input, output, 50*time.Millisecond)

	for i := 0; i < 10; i++ {
		input <- FileEvent{Path: "skills/alpha/SKILL.md", Op: fsnotify.Write, Time: time.Now()}
	}

	select {
	case event := <-output:
		assert.Equal(t, "skills/alpha/SKILL.md", event.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced event")
	}

	// The rapid-fire writes above must collapse into a single event
	select {
	case event := <-output:
		t.Fatalf("expected a single debounced event, got another for %s", event.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDebounceFileEventsBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := make(chan FileEvent)
	output := make(chan FileEvent, 256)

	go debounceFileEvents(ctx, input, output, time.Microsecond)

	var received atomic.Int64
	go func() {
		for {
			select {
			case <-output:
				received.Add(1)
			case <-ctx.Done():
				return
			}
		}
	}()

	// Hammer a handful of paths so timer callbacks fire while the loop
	// is still mutating the pending map
	for i := 0; i < 2000; i++ {
		path := fmt.Sprintf("skills/pack-%d/SKILL.md", i%8)
		input <- FileEvent{Path: path, Op: fsnotify.Write, Time: time.Now()}
	}

	assert.Eventually(t, func() bool {
		return received.Load() > 0
	}, 2*time.Second, 10*time.Millisecond)
}
