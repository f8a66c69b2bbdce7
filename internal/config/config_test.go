package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parley.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for a missing file, got %v", err)
	}
	if config.Server.SocketURL != "ws://localhost:8000" {
		t.Fatalf("unexpected default socket url %q", config.Server.SocketURL)
	}
	if config.Audio.Backend != "miniaudio" || config.Audio.ChunkSamples != 4096 {
		t.Fatalf("unexpected default audio config %#v", config.Audio)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  socket_url: wss://parley.example.com
  auth_url: https://parley.example.com
identity:
  role: agent
  language: de
audio:
  backend: portaudio
  chunk_samples: 2048
session:
  idle_timeout: 120
  complete_window: 1.5
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if config.Server.SocketURL != "wss://parley.example.com" {
		t.Fatalf("unexpected socket url %q", config.Server.SocketURL)
	}
	if config.Identity.Role != "agent" || config.Identity.Language != "de" {
		t.Fatalf("unexpected identity %#v", config.Identity)
	}
	if config.Audio.Backend != "portaudio" || config.Audio.ChunkSamples != 2048 {
		t.Fatalf("unexpected audio config %#v", config.Audio)
	}
	if config.Session.GetIdleTimeout() != 2*time.Minute {
		t.Fatalf("unexpected idle timeout %v", config.Session.GetIdleTimeout())
	}
	if config.Session.GetCompleteWindow() != 1500*time.Millisecond {
		t.Fatalf("unexpected complete window %v", config.Session.GetCompleteWindow())
	}
}

func TestLoadPartialFileKeepsRemainingDefaults(t *testing.T) {
	path := writeConfig(t, `
identity:
  role: agent
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}
	if config.Identity.Role != "agent" {
		t.Fatalf("expected override applied, got %q", config.Identity.Role)
	}
	if config.Server.SocketURL != "ws://localhost:8000" {
		t.Fatalf("expected default socket url kept, got %q", config.Server.SocketURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad role":      "identity:\n  role: admin\n",
		"bad backend":   "audio:\n  backend: alsa\n",
		"tiny chunks":   "audio:\n  chunk_samples: 16\n",
		"zero timeout":  "session:\n  idle_timeout: 0\n",
		"no socket url": "server:\n  socket_url: \"\"\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [broken")); err == nil {
		t.Fatalf("expected parse error")
	}
}
