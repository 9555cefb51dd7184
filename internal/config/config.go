package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Compiler struct {
		Command       string        `yaml:"command" default:"pdflatex"`
		WorkRoot      string        `yaml:"work_root"`
		Timeout       time.Duration `yaml:"timeout" default:"60s"`
		MaxConcurrent int           `yaml:"max_concurrent" default:"4"`
		QueueWait     time.Duration `yaml:"queue_wait" default:"10s"`
		RateLimit     int           `yaml:"rate_limit" default:"120"` // submissions per minute, 0 disables
	} `yaml:"compiler"`

	Templates struct {
		Dir string `yaml:"dir"` // extra *.tex templates loaded at startup
	} `yaml:"templates"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Compiler.Command = "pdflatex"
	config.Compiler.Timeout = 60 * time.Second
	config.Compiler.MaxConcurrent = 4
	config.Compiler.QueueWait = 10 * time.Second
	config.Compiler.RateLimit = 120

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if command := os.Getenv("LATEX_COMMAND"); command != "" {
		c.Compiler.Command = command
	}

	if workRoot := os.Getenv("LATEX_WORK_ROOT"); workRoot != "" {
		c.Compiler.WorkRoot = workRoot
	}

	if timeout := os.Getenv("LATEX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Compiler.Timeout = d
		}
	}

	if maxConcurrent := os.Getenv("LATEX_MAX_CONCURRENT"); maxConcurrent != "" {
		if n, err := strconv.Atoi(maxConcurrent); err == nil {
			c.Compiler.MaxConcurrent = n
		}
	}

	if queueWait := os.Getenv("LATEX_QUEUE_WAIT"); queueWait != "" {
		if d, err := time.ParseDuration(queueWait); err == nil {
			c.Compiler.QueueWait = d
		}
	}

	if rateLimit := os.Getenv("LATEX_RATE_LIMIT"); rateLimit != "" {
		if n, err := strconv.Atoi(rateLimit); err == nil {
			c.Compiler.RateLimit = n
		}
	}

	if dir := os.Getenv("TEMPLATES_DIR"); dir != "" {
		c.Templates.Dir = dir
	}
}
