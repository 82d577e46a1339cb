// Command captain-veggie runs the Captain Veggie harvest game.
//
// It supports four commands:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" – plays one game in the terminal and records the score
//  4. "scores" – prints the high score table
//
// Flags control host/port, layout and score locations, debug logging,
// tracing, and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/kartikeysingh210/Captain-veggie/telemetry"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Captain Veggie"
)

// main loads .env, then runs the command tree.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatalf("%s: %v", AppName, err)
	}
}

// newApp builds the root command. Flags declared here are shared by every
// subcommand.
func newApp() *cli.Command {
	var shutdownTelemetry func(context.Context) error

	return &cli.Command{
		Name:    "captain-veggie",
		Usage:   "harvest vegetables before the rabbits get in the way",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing field layouts",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "scores",
				Value:   "highscore.json",
				Usage:   "High score file",
				Sources: cli.EnvVars("HIGH_SCORE_FILE"),
			},
			&cli.StringFlag{
				Name:    "score-backend",
				Value:   backendFile,
				Usage:   "High score storage: file or bolt",
				Sources: cli.EnvVars("HIGH_SCORE_BACKEND"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "telemetry",
				Usage:   "Export traces over OTLP HTTP (configured with OTEL_EXPORTER_OTLP_* variables)",
				Sources: cli.EnvVars("TELEMETRY_ENABLED"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}

			if cmd.Bool("telemetry") {
				shutdown, err := telemetry.Setup(ctx)
				if err != nil {
					return ctx, fmt.Errorf("failed to set up telemetry: %w", err)
				}
				shutdownTelemetry = shutdown
			}
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if shutdownTelemetry == nil {
				return nil
			}
			if err := shutdownTelemetry(ctx); err != nil {
				log.Printf("Warning: telemetry shutdown: %v", err)
			}
			return nil
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			playCommand(),
			scoresCommand(),
		},
	}
}

// settings collects the values initializeServices needs
type settings struct {
	configDir    string
	sessionsDir  string
	scoresPath   string
	scoreBackend string
	seed         uint64
}

// settingsFrom reads settings from the shared and command flags
func settingsFrom(cmd *cli.Command) settings {
	s := settings{
		configDir:    cmd.String("config-dir"),
		scoresPath:   cmd.String("scores"),
		scoreBackend: cmd.String("score-backend"),
		sessionsDir:  "sessions",
	}
	if cmd.IsSet("sessions-dir") {
		s.sessionsDir = cmd.String("sessions-dir")
	}
	if cmd.IsSet("seed") {
		s.seed = cmd.Uint64("seed")
	}
	return s
}
