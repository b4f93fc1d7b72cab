package presenter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewWithOptions(&out, &errOut, ColorNever), &out, &errOut
}

func TestError(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Error(errors.New("boom"), "loading skill")
	assert.Contains(t, errOut.String(), "loading skill: boom")
	assert.Empty(t, out.String())

	errOut.Reset()
	p.Error(nil, "nothing happens")
	assert.Empty(t, errOut.String())
}

func TestErrorWithoutContext(t *testing.T) {
	p, _, errOut := newTestPresenter()
	p.Error(errors.New("boom"), "")
	assert.Contains(t, errOut.String(), "Error: boom")
}

func TestQuietModeSuppressesOutput(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)

	p.Success("done")
	p.Warning("careful")
	p.Info("fyi")
	p.Section("header")
	p.Separator()
	assert.Empty(t, out.String())

	// Errors are never suppressed
	p.Error(errors.New("boom"), "")
	assert.Contains(t, errOut.String(), "boom")
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("installed")
	p.Warning("skipped")
	p.Info("3 skills found")
	p.Section("Lint")

	output := out.String()
	assert.Contains(t, output, "installed")
	assert.Contains(t, output, "skipped")
	assert.Contains(t, output, "3 skills found")
	assert.Contains(t, output, "=== Lint ===")
}
