// Package config loads the assistant configuration from YAML into an
// immutable struct. The configuration is read once at startup and threaded
// through constructors; nothing re-reads it per call.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Owner identifies the person the assistant speaks for.
type Owner struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Bio   string `yaml:"bio"`
}

// Agent describes the assistant persona and the model behind it.
type Agent struct {
	Name        string `yaml:"name"`
	Provider    string `yaml:"provider"` // openai, anthropic or mock
	Model       string `yaml:"model"`
	Instruction string `yaml:"instruction"`
	Personality string `yaml:"personality"`
}

// Storage fixes the per-user directories for general files and relayed
// messages.
type Storage struct {
	FilesDir    string `yaml:"files_dir"`
	MessagesDir string `yaml:"messages_dir"`
}

// Command bounds shell command execution.
type Command struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Redis holds connection settings for the Redis artifact backend.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Artifact selects the optional artifact backend.
type Artifact struct {
	// Backend is one of "none", "memory" or "redis".
	Backend string `yaml:"backend"`
	Redis   Redis  `yaml:"redis"`
}

// Config is the full assistant configuration. Treat instances as immutable
// after Load.
type Config struct {
	Owner    Owner    `yaml:"owner"`
	Agent    Agent    `yaml:"agent"`
	Storage  Storage  `yaml:"storage"`
	Command  Command  `yaml:"command"`
	Artifact Artifact `yaml:"artifact"`
}

// Defaults applied for fields the YAML leaves unset.
const (
	DefaultAgentName      = "myagent"
	DefaultProvider       = "openai"
	DefaultFilesDir       = "data/files"
	DefaultMessagesDir    = "data/messages"
	DefaultTimeoutSeconds = 30
)

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes, defaults and validates raw YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Agent.Name == "" {
		c.Agent.Name = DefaultAgentName
	}
	if c.Agent.Provider == "" {
		c.Agent.Provider = DefaultProvider
	}
	if c.Storage.FilesDir == "" {
		c.Storage.FilesDir = DefaultFilesDir
	}
	if c.Storage.MessagesDir == "" {
		c.Storage.MessagesDir = DefaultMessagesDir
	}
	if c.Command.TimeoutSeconds <= 0 {
		c.Command.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Artifact.Backend == "" {
		c.Artifact.Backend = "none"
	}
}

// Validate reports configuration errors that would only surface later as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.Owner.Name == "" {
		return errors.New("config: owner.name is required")
	}
	switch c.Agent.Provider {
	case "openai", "anthropic", "mock":
	default:
		return fmt.Errorf("config: unknown agent.provider %q", c.Agent.Provider)
	}
	switch c.Artifact.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("config: unknown artifact.backend %q", c.Artifact.Backend)
	}
	if c.Artifact.Backend == "redis" && c.Artifact.Redis.Addr == "" {
		return errors.New("config: artifact.redis.addr is required for the redis backend")
	}
	return nil
}
