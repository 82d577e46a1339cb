package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/highscore"
)

const helpLine = "W/A/S/D or arrow keys to move, Esc to quit"

var (
	textStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	borderStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	captainStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	rabbitStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	veggieStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	titleStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	hintStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// FieldLines draws the field inside a '#' border with cells separated by
// spaces:
//
//	#######
//	# c V #
//	# R   #
//	#######
func FieldLines(f *engine.Field) []string {
	border := "##" + strings.Repeat("#", f.Cols*2-1) + "##"
	lines := make([]string, 0, f.Rows+2)
	lines = append(lines, border)
	for r := 0; r < f.Rows; r++ {
		symbols := make([]string, f.Cols)
		for c := 0; c < f.Cols; c++ {
			symbols[c] = f.Symbol(engine.Position{Row: r, Col: c})
		}
		lines = append(lines, "# "+strings.Join(symbols, " ")+" #")
	}
	return append(lines, border)
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// RenderIntro shows the welcome text and the veggie catalog.
func (r *Renderer) RenderIntro(config *engine.GameConfig) {
	r.screen.Clear()

	y := 0
	r.screen.DrawText(0, y, "Welcome to Captain Veggie!", titleStyle)
	y += 2
	for _, line := range []string{
		"The rabbits have invaded Captain Veggie's field.",
		"Harvest every vegetable by moving on top of it.",
		"Rabbits hop to a random empty spot every turn and block your way.",
		"The game continues until all the vegetables have been harvested.",
	} {
		r.screen.DrawText(0, y, line, textStyle)
		y++
	}

	y++
	r.screen.DrawText(0, y, "List of possible vegetables:", textStyle)
	y++
	for _, v := range config.Veggies {
		r.screen.DrawText(2, y, fmt.Sprintf("%s: %s, %d points", v.Symbol, v.Name, v.Points), veggieStyle)
		y++
	}

	y++
	r.screen.DrawText(0, y, "Captain Veggie's symbol: "+engine.CaptainSymbol, captainStyle)
	y++
	r.screen.DrawText(0, y, "Rabbit's symbol: "+engine.RabbitSymbol, rabbitStyle)
	y += 2
	r.screen.DrawText(0, y, "Press any key to start, Esc to quit", hintStyle)

	r.screen.Show()
}

// Render draws the status lines, the bordered field and the last message.
func (r *Renderer) Render(state *engine.GameState) {
	r.screen.Clear()

	r.screen.DrawText(0, 0, fmt.Sprintf("Remaining Veggies: %d", state.RemainingVeggies()), textStyle)
	r.screen.DrawText(0, 1, fmt.Sprintf("Score: %d", state.Score), textStyle)

	y := 3
	for i, line := range FieldLines(state.Field) {
		if i == 0 || i == state.Field.Rows+1 {
			r.screen.DrawText(0, y, line, borderStyle)
			y++
			continue
		}
		r.renderRow(y, line)
		y++
	}

	y++
	if state.Message != "" {
		r.screen.DrawText(0, y, state.Message, textStyle)
	}
	r.screen.DrawText(0, y+2, helpLine, hintStyle)

	r.screen.Show()
}

// renderRow colours one bordered row by symbol
func (r *Renderer) renderRow(y int, line string) {
	last := len([]rune(line)) - 1
	for x, ch := range []rune(line) {
		style := veggieStyle
		switch {
		case x == 0 || x == last:
			style = borderStyle
		case string(ch) == engine.CaptainSymbol:
			style = captainStyle
		case string(ch) == engine.RabbitSymbol:
			style = rabbitStyle
		}
		r.screen.SetContent(x, y, ch, style)
	}
}

// RenderGameOver shows the harvest summary and the initials prompt.
func (r *Renderer) RenderGameOver(state *engine.GameState, initials string) {
	r.screen.Clear()

	width, _ := r.screen.Size()

	y := 0
	r.screen.DrawText(0, y, "Game Over!", titleStyle)
	y += 2
	r.screen.DrawText(0, y, "Vegetables harvested by Captain Veggie:", textStyle)
	y++
	for _, line := range wrap(harvestSummary(state.Captain.Collected), width-2) {
		r.screen.DrawText(2, y, line, veggieStyle)
		y++
	}
	y++
	r.screen.DrawText(0, y, fmt.Sprintf("Player's score: %d", state.Score), textStyle)
	y += 2

	x := r.screen.DrawText(0, y, fmt.Sprintf("Enter your initials (max %d characters): ", highscore.MaxInitialsLength), textStyle)
	x = r.screen.DrawText(x, y, initials, captainStyle)
	r.screen.SetContent(x, y, '_', hintStyle)
	r.screen.DrawText(0, y+2, "Enter to save, Esc to skip", hintStyle)

	r.screen.Show()
}

// RenderHighScores shows the table, highlighting the given 1-based rank.
func (r *Renderer) RenderHighScores(lines []string, rank int) {
	r.screen.Clear()

	r.screen.DrawText(0, 0, "High Scores:", titleStyle)
	y := 2
	if len(lines) == 0 {
		r.screen.DrawText(0, y, "No high scores yet", textStyle)
		y++
	}
	for i, line := range lines {
		style := textStyle
		if i+1 == rank {
			style = captainStyle
		}
		r.screen.DrawText(0, y, line, style)
		y++
	}
	r.screen.DrawText(0, y+1, "Press any key to exit", hintStyle)

	r.screen.Show()
}

// harvestSummary counts harvested veggies by name in first-harvest order
func harvestSummary(collected []engine.Veggie) string {
	if len(collected) == 0 {
		return "none"
	}

	counts := make(map[string]int)
	var order []string
	for _, v := range collected {
		if counts[v.Name] == 0 {
			order = append(order, v.Name)
		}
		counts[v.Name]++
	}

	parts := make([]string, len(order))
	for i, name := range order {
		parts[i] = fmt.Sprintf("%s x%d", name, counts[name])
	}
	return strings.Join(parts, ", ")
}

// wrap splits text on spaces into lines of at most width runes
func wrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len([]rune(line))+1+len([]rune(word)) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
