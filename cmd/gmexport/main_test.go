package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunDefaultPrintsError(t *testing.T) {
	ctx = context.Background()
	opts = Options{ConfigFile: t.TempDir()}

	var stderr bytes.Buffer
	assert.Equal(t, 1, runDefault(&stderr))
	assert.Contains(t, stderr.String(), "is a directory")
}

func TestRunDefaultPrintsLaunchError(t *testing.T) {
	ctx = context.Background()
	opts = Options{Output: t.TempDir(), Settings: t.TempDir() + "/settings.yaml"}
	opts.TUI.Launch = "gmexport://%zz"

	var stderr bytes.Buffer
	assert.Equal(t, 1, runDefault(&stderr))
	assert.Contains(t, stderr.String(), "invalid launch address")
}
