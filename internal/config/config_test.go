package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "pdflatex", cfg.Compiler.Command)
	assert.Equal(t, 60*time.Second, cfg.Compiler.Timeout)
	assert.Equal(t, 4, cfg.Compiler.MaxConcurrent)
	assert.Equal(t, 10*time.Second, cfg.Compiler.QueueWait)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
compiler:
  command: xelatex
  timeout: 90s
  max_concurrent: 8
templates:
  dir: /opt/templates
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "xelatex", cfg.Compiler.Command)
	assert.Equal(t, 90*time.Second, cfg.Compiler.Timeout)
	assert.Equal(t, 8, cfg.Compiler.MaxConcurrent)
	assert.Equal(t, "/opt/templates", cfg.Templates.Dir)
	// Values the file does not mention keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("LATEX_COMMAND", "lualatex")
	t.Setenv("LATEX_TIMEOUT", "45s")
	t.Setenv("LATEX_MAX_CONCURRENT", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "lualatex", cfg.Compiler.Command)
	assert.Equal(t, 45*time.Second, cfg.Compiler.Timeout)
	assert.Equal(t, 2, cfg.Compiler.MaxConcurrent)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_TEMPLATES_DIR", "/srv/tex")

	assert.Equal(t, "/srv/tex", expandEnvVars("${TEST_TEMPLATES_DIR}"))
	assert.Equal(t, "/srv/tex", expandEnvVars("$TEST_TEMPLATES_DIR"))
	// Unset variables are left untouched.
	assert.Equal(t, "${NOT_SET_ANYWHERE}", expandEnvVars("${NOT_SET_ANYWHERE}"))
}
