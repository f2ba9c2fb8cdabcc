package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", false, &buf)

	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Str("algorithm", "rr").Msg("shown")
	assert.Contains(t, buf.String(), `"algorithm":"rr"`)
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New("chatty", false, &bytes.Buffer{}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("", false, &bytes.Buffer{}).GetLevel())
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", true, &buf)
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}
