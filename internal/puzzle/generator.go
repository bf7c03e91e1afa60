// Package puzzle generates arithmetic puzzles for a difficulty tier.
package puzzle

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/vytor/mathflash/internal/models"
)

// TierConfig is the operand range and operation set of a difficulty tier.
type TierConfig struct {
	Min         int
	Max         int
	Operations  []models.Operation
	Description string
}

var tiers = map[models.Difficulty]TierConfig{
	models.Easy: {
		Min:         1,
		Max:         10,
		Operations:  []models.Operation{models.Add, models.Subtract},
		Description: "Numbers 1-10, Addition & Subtraction",
	},
	models.Medium: {
		Min:         1,
		Max:         20,
		Operations:  []models.Operation{models.Add, models.Subtract, models.Multiply},
		Description: "Numbers 1-20, Addition, Subtraction & Multiplication",
	},
	models.Hard: {
		Min:         1,
		Max:         50,
		Operations:  []models.Operation{models.Add, models.Subtract, models.Multiply, models.Divide},
		Description: "Numbers 1-50, All Operations",
	},
}

// Config returns the configuration of d and false for an unknown tier.
func Config(d models.Difficulty) (TierConfig, bool) {
	cfg, ok := tiers[d]
	return cfg, ok
}

// Generator draws puzzles. Its only state is the default tier used by
// GenerateDefault; a Generator is not safe for concurrent use.
type Generator struct {
	rng        *rand.Rand
	difficulty models.Difficulty
}

type Option func(*Generator)

// WithRand sets the random source, mostly for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = r
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{difficulty: models.Medium}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		seed := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return g
}

// SetDifficulty changes the default tier. Unknown tiers are ignored.
func (g *Generator) SetDifficulty(d models.Difficulty) {
	if _, ok := tiers[d]; ok {
		g.difficulty = d
	}
}

func (g *Generator) Difficulty() models.Difficulty {
	return g.difficulty
}

// Describe returns the human readable description of d, or "" when d is unknown.
func (g *Generator) Describe(d models.Difficulty) string {
	return tiers[d].Description
}

func (g *Generator) DescribeDefault() string {
	return g.Describe(g.difficulty)
}

func (g *Generator) GenerateDefault() models.Puzzle {
	return g.Generate(g.difficulty)
}

// Generate returns a puzzle for d. Unknown tiers fall back to Medium.
// Division puzzles show dividend ÷ divisor with Operands[1] as the divisor and
// Answer as the quotient, so Operands[0] == Operands[1]*Answer.
func (g *Generator) Generate(d models.Difficulty) models.Puzzle {
	cfg, ok := tiers[d]
	if !ok {
		d = models.Medium
		cfg = tiers[d]
	}

	op := cfg.Operations[g.rng.IntN(len(cfg.Operations))]
	a := g.draw(cfg)
	b := g.draw(cfg)

	p := models.Puzzle{Difficulty: d, Operation: op}
	switch op {
	case models.Add:
		p.Answer = a + b
	case models.Subtract:
		if a < b {
			a, b = b, a
		}
		p.Answer = a - b
	case models.Multiply:
		p.Answer = a * b
	case models.Divide:
		// a is the divisor and b the quotient, so the dividend always divides evenly.
		a, b = a*b, a
		p.Answer = a / b
	}
	p.Operands = [2]int{a, b}
	p.Question = fmt.Sprintf("%d %s %d", a, op, b)
	return p
}

func (g *Generator) draw(cfg TierConfig) int {
	return cfg.Min + g.rng.IntN(cfg.Max-cfg.Min+1)
}
