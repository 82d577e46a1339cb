package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kartikeysingh210/Captain-veggie/game/config"
	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/highscore"
	"github.com/kartikeysingh210/Captain-veggie/ui"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play one game in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "layout", Usage: "Layout name from the config directory (default layout when empty)"},
			&cli.Uint64Flag{Name: "seed", Usage: "Seed the game for reproducible play (0 uses the clock)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s := settingsFrom(cmd)

			layout, err := loadLayout(s.configDir, cmd.String("layout"))
			if err != nil {
				return err
			}

			var rng engine.RandSource
			if s.seed != 0 {
				rng = engine.NewRand(s.seed)
			}
			eng, err := engine.NewEngine(layout, rng)
			if err != nil {
				return fmt.Errorf("failed to set up game: %w", err)
			}

			store, closeStore, err := openScoreStore(s.scoreBackend, s.scoresPath)
			if err != nil {
				return fmt.Errorf("failed to open high scores: %w", err)
			}
			defer closeStore()

			screen, err := ui.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to open terminal: %w", err)
			}
			defer screen.Close()

			// Log lines would tear the screen
			log.SetOutput(io.Discard)
			defer log.SetOutput(os.Stderr)

			return ui.NewGame(screen, eng, highscore.NewRecorder(store)).Run(ctx)
		},
	}
}

func scoresCommand() *cli.Command {
	return &cli.Command{
		Name:  "scores",
		Usage: "Print the high score table",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Show at most this many entries (0 shows all)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s := settingsFrom(cmd)

			store, closeStore, err := openScoreStore(s.scoreBackend, s.scoresPath)
			if err != nil {
				return fmt.Errorf("failed to open high scores: %w", err)
			}
			defer closeStore()

			table, err := store.Load()
			if err != nil {
				return err
			}
			return printScores(cmd.Root().Writer, table, cmd.Int("limit"))
		},
	}
}

// loadLayout returns the named layout, or the directory default when name is
// empty
func loadLayout(configDir, name string) (*engine.GameConfig, error) {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(name)
}

// printScores writes the table one "rank. initials: score" line at a time
func printScores(w io.Writer, table highscore.Table, limit int) error {
	if limit > 0 {
		table = table.Top(limit)
	}

	fmt.Fprintln(w, "High Scores:")
	if len(table) == 0 {
		_, err := fmt.Fprintln(w, "No high scores yet")
		return err
	}
	for _, line := range table.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
