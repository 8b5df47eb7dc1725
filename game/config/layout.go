package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/CyberMindX-AI/merrychristmas/game/maze"
	"github.com/CyberMindX-AI/merrychristmas/game/signal"
)

// ReferenceName is the name of the built-in layout
const ReferenceName = "reference"

// Messages are the texts shown around the maze
type Messages struct {
	Title string `json:"title" yaml:"title"`
	Hint  string `json:"hint" yaml:"hint"`
	Won   string `json:"won" yaml:"won"`
}

// Layout is a maze file: the grid plus presentation settings
type Layout struct {
	Name               string   `json:"name" yaml:"name"`
	Description        string   `json:"description" yaml:"description"`
	CelebrationDelayMS int      `json:"celebration_delay_ms,omitempty" yaml:"celebration_delay_ms,omitempty"`
	Grid               [][]int  `json:"layout" yaml:"layout"`
	Messages           Messages `json:"messages" yaml:"messages"`
}

// DefaultMessages returns the messages used when a layout leaves them empty
func DefaultMessages() Messages {
	return Messages{
		Title: "Help him find her!",
		Hint:  "Use arrow keys or buttons",
		Won:   "Merry Christmas!",
	}
}

// Reference returns the built-in 10x10 layout
func Reference() *Layout {
	return &Layout{
		Name:               ReferenceName,
		Description:        "The 10x10 greeting maze",
		CelebrationDelayMS: int(signal.DefaultDelay / time.Millisecond),
		Grid:               maze.ReferenceLayout(),
		Messages:           DefaultMessages(),
	}
}

// Validate checks the layout settings and the maze grid
func (l *Layout) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if l.CelebrationDelayMS < 0 {
		return fmt.Errorf("%w: celebration_delay_ms must not be negative", ErrInvalidConfig)
	}
	if _, err := maze.New(l.Grid); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Definition builds the immutable maze for this layout
func (l *Layout) Definition() (*maze.Definition, error) {
	return maze.New(l.Grid)
}

// CelebrationDelay returns the delay before the completion notification
func (l *Layout) CelebrationDelay() time.Duration {
	if l.CelebrationDelayMS <= 0 {
		return signal.DefaultDelay
	}
	return time.Duration(l.CelebrationDelayMS) * time.Millisecond
}

// applyDefaults fills empty messages
func (l *Layout) applyDefaults() {
	defaults := DefaultMessages()
	if l.Messages.Title == "" {
		l.Messages.Title = defaults.Title
	}
	if l.Messages.Hint == "" {
		l.Messages.Hint = defaults.Hint
	}
	if l.Messages.Won == "" {
		l.Messages.Won = defaults.Won
	}
}

// Decode parses a layout file body. The format is chosen from the file
// extension: .yaml and .yml are YAML, anything else is JSON.
func Decode(filename string, data []byte) (*Layout, error) {
	var layout Layout

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &layout); err != nil {
			return nil, fmt.Errorf("failed to parse yaml layout: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &layout); err != nil {
			return nil, fmt.Errorf("failed to parse json layout: %w", err)
		}
	}

	layout.applyDefaults()
	return &layout, nil
}

// Encode serializes a layout in the format matching filename
func Encode(filename string, layout *Layout) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return yaml.Marshal(layout)
	default:
		return json.MarshalIndent(layout, "", "  ")
	}
}
