// Command validate checks the field layouts in a config directory. For each
// .csv or .json layout it checks:
//   - The file parses and the engine accepts the field size and catalog
//   - Veggie names and symbols are unique within the catalog
//   - The field has room for every veggie, the captain, the rabbits and one spare cell
//   - A trial setup places exactly the expected number of each entity
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kartikeysingh210/Captain-veggie/game/config"
	"github.com/kartikeysingh210/Captain-veggie/game/engine"
)

// trialSeeds are the setups dealt for every layout
var trialSeeds = []uint64{1, 2, 3}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single layout file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	layout, err := config.LoadFile(filePath)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	checkCatalog(layout, &result)
	if !result.Valid {
		return result
	}

	checkSetup(layout, &result)
	if !result.Valid {
		return result
	}

	veggies, rabbits := entityCounts(layout)
	result.info("Name: %s", layout.Name)
	result.info("Field: %dx%d", layout.Rows, layout.Cols)
	result.info("Catalog: %s", catalogSummary(layout.Veggies))
	result.info("Veggies: %d, Rabbits: %d", veggies, rabbits)
	result.info("Free cells after setup: %d", layout.Rows*layout.Cols-layout.Capacity())
	return result
}

// checkCatalog reports duplicate names and symbols. The engine accepts them
// but the field would show two veggies the player cannot tell apart.
func checkCatalog(layout *engine.GameConfig, result *ValidationResult) {
	names := make(map[string]bool)
	symbols := make(map[string]string)

	for _, v := range layout.Veggies {
		key := strings.ToLower(v.Name)
		if names[key] {
			result.fail("Duplicate veggie name: %s", v.Name)
		}
		names[key] = true

		if other, ok := symbols[v.Symbol]; ok {
			result.fail("Symbol %q used by both %s and %s", v.Symbol, other, v.Name)
			continue
		}
		symbols[v.Symbol] = v.Name
	}
}

// checkSetup deals a few seeded setups and counts what landed on the field
func checkSetup(layout *engine.GameConfig, result *ValidationResult) {
	veggies, rabbits := entityCounts(layout)

	for _, seed := range trialSeeds {
		state, err := engine.InitGameStateFromConfig(layout, engine.NewRand(seed))
		if err != nil {
			result.fail("Setup failed with seed %d: %v", seed, err)
			return
		}

		field := state.Field
		counts := []struct {
			kind engine.CellKind
			want int
		}{
			{engine.VeggieCell, veggies},
			{engine.CaptainCell, 1},
			{engine.RabbitCell, rabbits},
		}
		for _, c := range counts {
			if got := field.Count(c.kind); got != c.want {
				result.fail("Setup with seed %d placed %d %s cells, expected %d", seed, got, c.kind, c.want)
			}
		}
	}
}

// entityCounts resolves the veggie and rabbit counts a layout asks for
func entityCounts(layout *engine.GameConfig) (veggies, rabbits int) {
	return layout.VeggieTotal(), layout.RabbitTotal()
}

func catalogSummary(catalog []engine.Veggie) string {
	parts := make([]string, len(catalog))
	for i, v := range catalog {
		parts[i] = fmt.Sprintf("%s(%s)=%d", v.Name, v.Symbol, v.Points)
	}
	return strings.Join(parts, ", ")
}

// layoutFiles lists the .csv and .json files in dir, sorted by name
func layoutFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.csv", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// report prints one section per file and returns whether all were valid
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}

		fmt.Fprintln(w, "❌ INVALID")
		allValid = false
		for _, err := range result.Errors {
			if !strings.HasPrefix(err, "✓") {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All layouts are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some layouts have errors")
	}
	return allValid
}

// main validates every layout in the given directory (default ../configs)
// and exits with non-zero status if any are invalid.
func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "check Captain Veggie field layouts",
		ArgsUsage: "[config-dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := "../configs"
			if cmd.Args().Present() {
				dir = cmd.Args().First()
			}

			files, err := layoutFiles(dir)
			if err != nil {
				return fmt.Errorf("error finding layout files: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no layouts found in %s", dir)
			}

			results := make([]ValidationResult, len(files))
			for i, file := range files {
				results[i] = validateConfig(file)
			}
			if !report(cmd.Root().Writer, results) {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
