package shmlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerFormatsLevelComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: Info, Component: "test", Output: &buf})

	logger.Info("hello", String("key", "value"))

	line := buf.String()
	assert.Contains(t, line, "[INFO ]")
	assert.Contains(t, line, "[test]")
	assert.Contains(t, line, "hello")
	assert.Contains(t, line, `key="value"`)
}

func TestLoggerBelowLevelIsSuppressed(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: Warn, Output: &buf})

	logger.Info("should not appear")
	assert.Empty(t, buf.String())
}

func TestWithCarriesFieldsIntoSubsequentCalls(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: Info, Output: &buf})

	child := logger.With(String("region", "r1"))
	child.Info("opened")
	child.Info("closed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `region="r1"`)
	}
}
