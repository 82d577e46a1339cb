package ui

import (
	"context"
	"errors"
	"log"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/highscore"
	"github.com/kartikeysingh210/Captain-veggie/telemetry"
)

// ScoreRecorder stores finished games
type ScoreRecorder interface {
	Record(initials string, score int) (highscore.Table, int, error)
	Load() (highscore.Table, error)
}

// Game runs one interactive game in the terminal.
type Game struct {
	screen   *Screen
	renderer *Renderer
	engine   engine.Engine
	scores   ScoreRecorder
	tracer   trace.Tracer
	running  bool
}

// NewGame creates a game on screen. scores may be nil, in which case the
// result is not recorded.
func NewGame(screen *Screen, eng engine.Engine, scores ScoreRecorder) *Game {
	return &Game{
		screen:   screen,
		renderer: NewRenderer(screen),
		engine:   eng,
		scores:   scores,
		tracer:   telemetry.Tracer("ui"),
		running:  true,
	}
}

// Run shows the intro, plays turns until the field is cleared or the player
// quits, then asks for initials and shows the high score table. The caller
// closes the screen.
func (g *Game) Run(ctx context.Context) error {
	ctx, span := g.tracer.Start(ctx, "ui.game")
	defer span.End()

	g.renderer.RenderIntro(g.engine.GetConfig())
	if !g.waitForKey() {
		return nil
	}

	for g.running && !g.engine.IsGameOver() {
		g.renderer.Render(g.engine.GetState())
		g.handleInput(ctx)
	}

	span.SetAttributes(
		attribute.Int("game.score", g.engine.GetScore()),
		attribute.Int("game.turns", g.engine.GetState().Turn),
		attribute.Bool("game.finished", g.engine.IsGameOver()),
	)

	if !g.engine.IsGameOver() {
		return nil
	}
	return g.finish()
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	case nil:
		// Screen finalized
		g.running = false
	}
}

// handleKeyEvent maps keys onto direction tokens. Any other printable key is
// passed through so the engine reports it as invalid input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
	case tcell.KeyUp:
		g.play(ctx, string(engine.Up))
	case tcell.KeyDown:
		g.play(ctx, string(engine.Down))
	case tcell.KeyLeft:
		g.play(ctx, string(engine.Left))
	case tcell.KeyRight:
		g.play(ctx, string(engine.Right))
	case tcell.KeyRune:
		g.play(ctx, string(ev.Rune()))
	}
}

// play runs one turn. Rejected moves only update the message line.
func (g *Game) play(ctx context.Context, token string) {
	_, span := g.tracer.Start(ctx, "ui.turn")
	defer span.End()

	result, err := g.engine.Move(token)
	span.SetAttributes(
		attribute.String("turn.input", token),
		attribute.String("turn.outcome", string(result.Outcome)),
	)
	if err != nil && !engine.IsRejection(err) {
		log.Printf("Warning: turn failed: %v", err)
		g.running = false
	}
}

// finish prompts for initials, records the score and shows the table
func (g *Game) finish() error {
	state := g.engine.GetState()

	initials, ok := g.promptInitials(state)
	if !ok || g.scores == nil {
		return nil
	}

	table, rank, err := g.scores.Record(initials, state.Score)
	if err != nil {
		if errors.Is(err, highscore.ErrInvalidEntry) {
			return nil
		}
		return err
	}

	g.renderer.RenderHighScores(table.Lines(), rank)
	g.waitForKey()
	return nil
}

// promptInitials reads up to highscore.MaxInitialsLength characters. It returns false
// when the player skips with Esc.
func (g *Game) promptInitials(state *engine.GameState) (string, bool) {
	initials := ""
	for {
		g.renderer.RenderGameOver(state, initials)

		var ev *tcell.EventKey
		switch e := g.screen.PollEvent().(type) {
		case *tcell.EventKey:
			ev = e
		case nil:
			return "", false
		default:
			continue
		}

		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return "", false
		case tcell.KeyEnter:
			return initials, true
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(initials) > 0 {
				_, size := utf8.DecodeLastRuneInString(initials)
				initials = initials[:len(initials)-size]
			}
		case tcell.KeyRune:
			if utf8.RuneCountInString(initials) < highscore.MaxInitialsLength && ev.Rune() != ' ' {
				initials += string(ev.Rune())
			}
		}
	}
}

// waitForKey blocks until a key is pressed. It returns false on Esc or when
// the screen is gone.
func (g *Game) waitForKey() bool {
	for {
		switch ev := g.screen.PollEvent().(type) {
		case *tcell.EventKey:
			return ev.Key() != tcell.KeyEscape && ev.Key() != tcell.KeyCtrlC
		case *tcell.EventResize:
			g.screen.Sync()
		case nil:
			return false
		}
	}
}
