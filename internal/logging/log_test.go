package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "warn")
	t.Cleanup(func() { Init(nil, "info") })

	Info("hidden %d", 1)
	Warn("shown %s", "wled")

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "shown wled")
	assert.Contains(t, out, "[WARN]")
}

func TestInitUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "chatty")
	t.Cleanup(func() { Init(nil, "info") })

	Debug("debug line")
	Info("info line")

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.Contains(t, out, "info line")
}
