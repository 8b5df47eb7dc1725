package engine

import (
	"encoding/json"
	"fmt"

	"github.com/CyberMindX-AI/merrychristmas/game/maze"
)

// Outcome is the result of a single move attempt
type Outcome int

const (
	// Accepted outcomes
	Moved Outcome = iota
	Won

	// Rejected outcomes; the session state is left unchanged
	OutOfBounds
	Blocked
	AlreadySolved
)

var outcomeNames = map[Outcome]string{
	Moved:         "moved",
	Won:           "won",
	OutOfBounds:   "out_of_bounds",
	Blocked:       "blocked",
	AlreadySolved: "already_solved",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Accepted reports whether the move changed the player position
func (o Outcome) Accepted() bool {
	return o == Moved || o == Won
}

// MarshalJSON encodes the outcome by name
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes an outcome name
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for outcome, n := range outcomeNames {
		if n == name {
			*o = outcome
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", name)
}

// Status is the session state machine: InProgress until the goal is reached
type Status string

const (
	InProgress Status = "in_progress"
	Solved     Status = "solved"
)

// State is a snapshot of one maze-solving session
type State struct {
	Position maze.Position `json:"position"`
	Start    maze.Position `json:"start"`
	Goal     maze.Position `json:"goal"`
	Solved   bool          `json:"solved"`
	Status   Status        `json:"status"`
	Moves    int           `json:"moves"`    // accepted moves
	Attempts int           `json:"attempts"` // every call to AttemptMove
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Grid     [][]int       `json:"grid"`

	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// MoveRecord is a single entry of the move history
type MoveRecord struct {
	MoveNumber int           `json:"move_number"`
	Direction  string        `json:"direction"`
	From       maze.Position `json:"from"`
	To         maze.Position `json:"to"`
	Outcome    Outcome       `json:"outcome"`
	Timestamp  int64         `json:"timestamp"`
}
