package models

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidOperation  = errors.New("invalid operation")
)

// Difficulty is a puzzle tier. Tiers are totally ordered; adaptation moves
// one step at a time between Easy and Hard.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Difficulties lists every tier from easiest to hardest.
var Difficulties = []Difficulty{Easy, Medium, Hard}

var difficultyNames = [...]string{Easy: "Easy", Medium: "Medium", Hard: "Hard"}

var (
	_ fmt.Stringer             = Difficulty(0)
	_ json.Marshaler           = Difficulty(0)
	_ json.Unmarshaler         = (*Difficulty)(nil)
	_ encoding.TextMarshaler   = Difficulty(0)
	_ encoding.TextUnmarshaler = (*Difficulty)(nil)
)

// IsValid reports whether d is one of Easy, Medium or Hard.
func (d Difficulty) IsValid() bool {
	return d >= Easy && d <= Hard
}

func (d Difficulty) String() string {
	if d.IsValid() {
		return difficultyNames[d]
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// Harder returns the next tier up and false when d is already the top tier.
func (d Difficulty) Harder() (Difficulty, bool) {
	if !d.IsValid() || d == Hard {
		return d, false
	}
	return d + 1, true
}

// Easier returns the next tier down and false when d is already the bottom tier.
func (d Difficulty) Easier() (Difficulty, bool) {
	if !d.IsValid() || d == Easy {
		return d, false
	}
	return d - 1, true
}

// ParseDifficulty accepts tier names case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDifficulty, int(d))
	}
	return []byte(difficultyNames[d]), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	v, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON encodes the tier by name.
func (d Difficulty) MarshalJSON() ([]byte, error) {
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDifficulty, data)
	}
	return d.UnmarshalText([]byte(s))
}
