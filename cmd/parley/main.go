package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	session "github.com/koscakluka/parley-core/core"
	"github.com/koscakluka/parley-core/core/audio/miniaudio"
	"github.com/koscakluka/parley-core/core/audio/portaudio"
	"github.com/koscakluka/parley-core/core/auth"
	"github.com/koscakluka/parley-core/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	configPath := flag.String("config", defaultConfigPath(), "path to the configuration file")
	role := flag.String("role", "", "override the configured role")
	language := flag.String("lang", "", "override the configured language")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *role != "" {
		cfg.Identity.Role = *role
	}
	if *language != "" {
		cfg.Identity.Language = *language
	}
	if socketURL := os.Getenv("PARLEY_SOCKET_URL"); socketURL != "" {
		cfg.Server.SocketURL = socketURL
	}
	if authURL := os.Getenv("PARLEY_AUTH_URL"); authURL != "" {
		cfg.Server.AuthURL = authURL
	}

	identity := session.Identity{
		Role:     cfg.Identity.Role,
		Language: cfg.Identity.Language,
		Username: cfg.Identity.Username,
	}

	if cfg.Server.AuthURL != "" {
		passphrase := os.Getenv("PARLEY_PASSPHRASE")
		grant, err := auth.NewClient(cfg.Server.AuthURL).Authenticate(context.Background(), auth.Credentials{
			Username:   identity.Username,
			Passphrase: passphrase,
		})
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Fatalf("Access denied: check PARLEY_PASSPHRASE")
		} else if err != nil {
			log.Fatalf("Failed to authenticate: %v", err)
		}
		identity.Role = grant.Role
		if grant.Username != "" {
			identity.Username = grant.Username
		}
	}

	store, err := session.NewFileIdentityStore()
	if err != nil {
		log.Printf("Warning: identity will not persist: %v", err)
	}

	opts := []session.SessionOption{
		session.WithIdleTimeout(cfg.Session.GetIdleTimeout()),
		session.WithCompleteWindow(cfg.Session.GetCompleteWindow()),
		session.WithChunkSamples(cfg.Audio.ChunkSamples),
	}
	if store != nil {
		opts = append(opts, session.WithIdentityStore(store))
	}

	var closeAudio func()
	switch cfg.Audio.Backend {
	case "miniaudio":
		client, err := miniaudio.NewClient()
		if err != nil {
			log.Fatalf("Failed to initialize audio: %v", err)
		}
		closeAudio = client.Close
		opts = append(opts, session.WithAudioInput(client), session.WithAudioOutput(client))
		if err := client.StartPlayback(context.Background()); err != nil {
			log.Printf("Warning: playback unavailable: %v", err)
		}
	case "portaudio":
		client, err := portaudio.NewClient(cfg.Audio.ChunkSamples)
		if err != nil {
			log.Fatalf("Failed to initialize audio: %v", err)
		}
		closeAudio = client.Close
		opts = append(opts, session.WithAudioInput(client))
	case "none":
	}
	if closeAudio != nil {
		defer closeAudio()
	}

	s, err := session.NewSession(cfg.Server.SocketURL, identity, opts...)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Connect(ctx); err != nil {
		log.Printf("Warning: not connected yet: %v", err)
	}

	program := tea.NewProgram(newModel(s), tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		err := s.Run(ctx,
			session.WithTimelineCallback(func(entries []session.TimelineEntry) {
				program.Send(timelineMsg(entries))
			}),
			session.WithComposerCallback(func(draft, preview string) {
				program.Send(composerMsg{draft: draft, preview: preview})
			}),
			session.WithStatusCallback(func(status session.Status) {
				program.Send(statusMsg(status))
			}),
			session.WithIdleTimeoutCallback(func() {
				program.Send(sessionEndedMsg{reason: "session ended after inactivity"})
			}),
			session.WithCaptureErrorCallback(func(err error) {
				program.Send(captureErrorMsg{err: err})
			}),
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			program.Send(sessionEndedMsg{reason: fmt.Sprintf("session ended: %v", err)})
		}
	}()

	if _, err := program.Run(); err != nil {
		log.Fatalf("Failed to run interface: %v", err)
	}
	s.Close()
}

func defaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "parley.yaml"
	}
	return filepath.Join(configDir, "parley", "parley.yaml")
}
