package engine

// CellKind tags what a grid cell currently holds
type CellKind string

const (
	EmptyCell   CellKind = "empty"
	VeggieCell  CellKind = "veggie"
	CaptainCell CellKind = "captain"
	RabbitCell  CellKind = "rabbit"
)

const (
	NumberOfVeggies = 30
	NumberOfRabbits = 5

	CaptainSymbol = "V"
	RabbitSymbol  = "R"
	EmptySymbol   = " "

	MaxFieldSize = 100
)

// Position represents a row, column pair on the field
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Veggie is a scorable field item. Many veggies may share the same template.
type Veggie struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Points int    `json:"points"`
}

// Cell is a tagged variant: Empty, Veggie(data), Captain or Rabbit(id)
type Cell struct {
	Kind     CellKind `json:"kind"`
	Veggie   *Veggie  `json:"veggie,omitempty"`
	RabbitID int      `json:"rabbit_id,omitempty"`
}

// Captain is the single player controlled creature
type Captain struct {
	Pos       Position `json:"pos"`
	Collected []Veggie `json:"collected"`
}

// Symbol returns the captain's display symbol
func (c *Captain) Symbol() string { return CaptainSymbol }

// Rabbit relocates randomly every turn and blocks the captain
type Rabbit struct {
	ID  int      `json:"id"`
	Pos Position `json:"pos"`
}

// Symbol returns the rabbit's display symbol
func (r *Rabbit) Symbol() string { return RabbitSymbol }

// Creature is anything on the field with a position and a symbol
type Creature interface {
	Position() Position
	Symbol() string
}

// Position returns the captain's current position
func (c *Captain) Position() Position { return c.Pos }

// Position returns the rabbit's current position
func (r *Rabbit) Position() Position { return r.Pos }

// GameConfig describes the field and the veggie catalog for one game
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Rows        int      `json:"rows"`
	Cols        int      `json:"cols"`
	Veggies     []Veggie `json:"veggies"`
	VeggieCount int      `json:"veggie_count,omitempty"`
	RabbitCount int      `json:"rabbit_count,omitempty"`
	Messages    Messages `json:"messages,omitempty"`
}

// Messages are the player facing texts emitted by the engine
type Messages struct {
	Welcome   string `json:"welcome,omitempty"`
	Harvest   string `json:"harvest,omitempty"`
	Rabbit    string `json:"rabbit,omitempty"`
	CantMove  string `json:"cant_move,omitempty"`
	BadInput  string `json:"bad_input,omitempty"`
	GameOver  string `json:"game_over,omitempty"`
	Remaining string `json:"remaining,omitempty"`
}

// GameState represents the complete game state
type GameState struct {
	Field      *Field             `json:"field"`
	Captain    *Captain           `json:"captain"`
	Rabbits    []*Rabbit          `json:"rabbits"`
	Catalog    []Veggie           `json:"catalog"`
	Score      int                `json:"score"`
	Message    string             `json:"message"`
	GameOver   bool               `json:"game_over"`
	ConfigName string             `json:"config_name"`
	Turn       int                `json:"turn"`
	History    []MoveHistoryEntry `json:"history"`
}

// MoveHistoryEntry records a single turn
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	Outcome      Outcome  `json:"outcome"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Veggie       string   `json:"veggie,omitempty"`
	Points       int      `json:"points,omitempty"`
	Score        int      `json:"score"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}
