package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestGenerateResumeID(t *testing.T) {
	id := GenerateResumeID()
	assert.True(t, strings.HasPrefix(id, "rsm_"))
	assert.NotEqual(t, id, GenerateResumeID())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{500 * time.Millisecond, "500ms"},
		{2500 * time.Millisecond, "2.50s"},
		{90 * time.Second, "1.5m"},
		{90 * time.Minute, "1.5h"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDuration(tt.input))
	}
}
