// Command analyze prints quick, human-readable heuristics about the layouts in
// the project's configs directory. It summarizes field size, crowding and the
// catalog's point spread, then plays a number of seeded games with a greedy
// captain that always walks to the nearest veggie.
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
)

// turnLimitPerCell bounds a simulated game at rows*cols*turnLimitPerCell turns
const turnLimitPerCell = 20

// Analysis holds the static and simulated figures for one layout
type Analysis struct {
	Name          string
	Rows, Cols    int
	Veggies       int
	Rabbits       int
	Density       float64 // share of cells occupied after setup
	MeanPoints    float64 // average catalog value, the expected value of one veggie
	ExpectedScore float64
	MaxScore      int

	Games      int
	Finished   int
	AvgTurns   float64
	AvgBlocked float64
	AvgScore   float64
}

// analyzeConfig computes the static figures and plays games seeded 1..games
func analyzeConfig(layout *engine.GameConfig, games int) Analysis {
	veggies := layout.VeggieTotal()

	best, total := 0, 0
	for _, v := range layout.Veggies {
		total += v.Points
		if v.Points > best {
			best = v.Points
		}
	}
	mean := float64(total) / float64(len(layout.Veggies))

	a := Analysis{
		Name:          layout.Name,
		Rows:          layout.Rows,
		Cols:          layout.Cols,
		Veggies:       veggies,
		Rabbits:       layout.RabbitTotal(),
		Density:       float64(layout.Capacity()) / float64(layout.Rows*layout.Cols),
		MeanPoints:    mean,
		ExpectedScore: mean * float64(veggies),
		MaxScore:      best * veggies,
	}

	var turns, blocked, score int
	for seed := 1; seed <= games; seed++ {
		result, err := simulate(layout, uint64(seed))
		if err != nil {
			log.Printf("Warning: %s seed %d: %v", layout.Name, seed, err)
			continue
		}
		a.Games++
		if result.finished {
			a.Finished++
		}
		turns += result.turns
		blocked += result.blocked
		score += result.score
	}

	if a.Games > 0 {
		n := float64(a.Games)
		a.AvgTurns = float64(turns) / n
		a.AvgBlocked = float64(blocked) / n
		a.AvgScore = float64(score) / n
	}
	return a
}

type simulation struct {
	finished bool
	turns    int
	blocked  int
	score    int
}

// simulate plays one greedy game to completion or the turn limit
func simulate(layout *engine.GameConfig, seed uint64) (simulation, error) {
	eng, err := engine.NewEngine(layout, engine.NewRand(seed))
	if err != nil {
		return simulation{}, err
	}

	limit := layout.Rows * layout.Cols * turnLimitPerCell
	var sim simulation
	for !eng.IsGameOver() && sim.turns < limit {
		result, err := eng.Move(string(greedyMove(eng.GetState())))
		if err != nil && !engine.IsRejection(err) {
			return sim, err
		}
		sim.turns++
		if result.Outcome == engine.OutcomeBlockedRabbit {
			sim.blocked++
		}
	}

	sim.finished = eng.IsGameOver()
	sim.score = eng.GetScore()
	return sim, nil
}

// greedyMove steps toward the nearest veggie, preferring a step onto a cell
// without a rabbit. When every closer step is blocked it sidesteps.
func greedyMove(state *engine.GameState) engine.Direction {
	target, _, found := engine.FindNearestVeggie(state)
	if !found {
		return engine.Up
	}

	from := state.Captain.Pos
	current := engine.ManhattanDistance(from, target)

	var closer, sideways []engine.Direction
	for _, dir := range engine.Directions {
		dr, dc := dir.Delta()
		next := engine.Position{Row: from.Row + dr, Col: from.Col + dc}
		if !state.Field.InBounds(next) || state.Field.At(next).Kind == engine.RabbitCell {
			continue
		}
		if engine.ManhattanDistance(next, target) < current {
			closer = append(closer, dir)
		} else {
			sideways = append(sideways, dir)
		}
	}

	switch {
	case len(closer) > 0:
		return closer[0]
	case len(sideways) > 0:
		return sideways[0]
	}
	return engine.Up
}

// printAnalysis writes the report for one layout
func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", a.Name)
	fmt.Fprintf(w, "Field: %d x %d\n", a.Rows, a.Cols)
	fmt.Fprintf(w, "Veggies: %d, Rabbits: %d\n", a.Veggies, a.Rabbits)
	fmt.Fprintf(w, "Occupied after setup: %.0f%%\n", a.Density*100)
	fmt.Fprintf(w, "Mean veggie value: %.2f\n", a.MeanPoints)
	fmt.Fprintf(w, "Expected score: %.1f (max %d)\n", a.ExpectedScore, a.MaxScore)

	if a.Games == 0 {
		fmt.Fprintln(w, "⚠️  No games could be simulated")
		return
	}

	fmt.Fprintf(w, "Greedy games: %d, finished: %d\n", a.Games, a.Finished)
	fmt.Fprintf(w, "Average turns: %.1f (%.1f blocked by rabbits)\n", a.AvgTurns, a.AvgBlocked)
	fmt.Fprintf(w, "Average score: %.1f\n", a.AvgScore)
	if a.Finished < a.Games {
		fmt.Fprintf(w, "⚠️  WARNING: %d games hit the turn limit\n", a.Games-a.Finished)
	} else {
		fmt.Fprintln(w, "✅ Every simulated game cleared the field")
	}
}

// selectLayouts returns the named layouts, or every valid layout when names is
// empty
func selectLayouts(manager *config.Manager, names []string) ([]*engine.GameConfig, error) {
	if len(names) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			names = append(names, info.ConfigID)
		}
	}

	layouts := make([]*engine.GameConfig, 0, len(names))
	for _, name := range names {
		layout, err := manager.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", name, err)
		}
		layouts = append(layouts, layout)
	}
	return layouts, nil
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "report layout statistics and greedy play results",
		ArgsUsage: "[layout...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "games", Value: 20, Usage: "Games to simulate per layout"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}

			layouts, err := selectLayouts(manager, cmd.Args().Slice())
			if err != nil {
				return err
			}

			for _, layout := range layouts {
				printAnalysis(cmd.Root().Writer, analyzeConfig(layout, cmd.Int("games")))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
