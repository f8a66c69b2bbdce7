package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete client configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Identity IdentityConfig `yaml:"identity"`
	Audio    AudioConfig    `yaml:"audio"`
	Session  SessionConfig  `yaml:"session"`
}

// ServerConfig locates the remote service.
type ServerConfig struct {
	// SocketURL is the ws:// or wss:// base of the session endpoint.
	SocketURL string `yaml:"socket_url"`
	// AuthURL is the http(s) base of the access endpoint. Optional; when
	// empty, sessions join without authenticating.
	AuthURL string `yaml:"auth_url"`
}

// IdentityConfig is who the session speaks as.
type IdentityConfig struct {
	Role     string `yaml:"role"`
	Language string `yaml:"language"`
	Username string `yaml:"username"`
}

// AudioConfig tunes the capture pipeline.
type AudioConfig struct {
	// Backend selects the capture/playback implementation.
	Backend string `yaml:"backend"`
	// ChunkSamples is the device-rate window size per outbound chunk.
	ChunkSamples int `yaml:"chunk_samples"`
}

// SessionConfig tunes session lifecycle behavior.
type SessionConfig struct {
	IdleTimeout    float64 `yaml:"idle_timeout"`    // seconds
	CompleteWindow float64 `yaml:"complete_window"` // seconds
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{SocketURL: "ws://localhost:8000"},
		Identity: IdentityConfig{Role: "customer", Language: "en"},
		Audio:    AudioConfig{Backend: "miniaudio", ChunkSamples: 4096},
		Session:  SessionConfig{IdleTimeout: 300, CompleteWindow: 3},
	}
}

// Load reads and parses the configuration file, falling back to defaults for
// omitted fields. A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs validation of the configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Identity.Validate(); err != nil {
		return fmt.Errorf("identity config: %w", err)
	}

	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}

	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session config: %w", err)
	}

	return nil
}

func (s *ServerConfig) Validate() error {
	if s.SocketURL == "" {
		return fmt.Errorf("socket_url cannot be empty")
	}
	return nil
}

func (i *IdentityConfig) Validate() error {
	validRoles := map[string]bool{"customer": true, "agent": true}
	if !validRoles[i.Role] {
		return fmt.Errorf("role must be 'customer' or 'agent', got '%s'", i.Role)
	}
	return nil
}

func (a *AudioConfig) Validate() error {
	validBackends := map[string]bool{"miniaudio": true, "portaudio": true, "none": true}
	if !validBackends[a.Backend] {
		return fmt.Errorf("backend must be one of [miniaudio, portaudio, none], got '%s'", a.Backend)
	}

	if a.ChunkSamples < 256 {
		return fmt.Errorf("chunk_samples must be at least 256, got %d", a.ChunkSamples)
	}
	return nil
}

func (s *SessionConfig) Validate() error {
	if s.IdleTimeout <= 0 {
		return fmt.Errorf("idle_timeout must be positive, got %f", s.IdleTimeout)
	}

	if s.CompleteWindow <= 0 {
		return fmt.Errorf("complete_window must be positive, got %f", s.CompleteWindow)
	}
	return nil
}

// GetIdleTimeout returns the idle timeout as a time.Duration.
func (s *SessionConfig) GetIdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeout * float64(time.Second))
}

// GetCompleteWindow returns the completion indicator window as a
// time.Duration.
func (s *SessionConfig) GetCompleteWindow() time.Duration {
	return time.Duration(s.CompleteWindow * float64(time.Second))
}
