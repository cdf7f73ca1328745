package slots

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Paytable defines the symbol set, match multipliers and draw odds for
// the slot engine. Tables load from YAML so the machine can be re-tuned
// without a rebuild.
type Paytable struct {
	Symbols       []string         `yaml:"symbols"`
	Triple        map[string]int64 `yaml:"triple"`         // per-symbol triple multiplier
	DefaultTriple int64            `yaml:"default_triple"` // triple multiplier for unlisted symbols
	Pair          int64            `yaml:"pair"`           // pair multiplier
	TripleChance  float64          `yaml:"triple_chance"`  // probability a spin is forced to a triple
	PairChance    float64          `yaml:"pair_chance"`    // probability a spin is forced to a pair
	LuckBonus     float64          `yaml:"luck_bonus"`     // added to both chances while a luck boost is active
}

const defaultPaytableYAML = `
symbols: [cherry, lemon, star, bell, grape, melon, clover]
triple:
  star: 20
  cherry: 12
  lemon: 8
default_triple: 6
pair: 4
triple_chance: 0.06
pair_chance: 0.25
luck_bonus: 0.12
`

// LoadPaytable parses a YAML paytable and validates it.
func LoadPaytable(data []byte) (*Paytable, error) {
	pt := &Paytable{}
	if err := yaml.Unmarshal(data, pt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal paytable: %w", err)
	}
	if err := pt.validate(); err != nil {
		return nil, fmt.Errorf("invalid paytable: %w", err)
	}
	return pt, nil
}

// LoadPaytableFile reads and parses a YAML paytable from disk.
func LoadPaytableFile(path string) (*Paytable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read paytable file: %w", err)
	}
	return LoadPaytable(data)
}

// DefaultPaytable returns the built-in table.
func DefaultPaytable() *Paytable {
	pt, err := LoadPaytable([]byte(defaultPaytableYAML))
	if err != nil {
		panic(fmt.Sprintf("default paytable is invalid: %v", err))
	}
	return pt
}

func (pt *Paytable) validate() error {
	if len(pt.Symbols) < 2 {
		return errors.New("at least two symbols required")
	}
	seen := make(map[string]bool, len(pt.Symbols))
	for _, s := range pt.Symbols {
		if s == "" {
			return errors.New("empty symbol name")
		}
		if seen[s] {
			return fmt.Errorf("duplicate symbol %q", s)
		}
		seen[s] = true
	}
	for s := range pt.Triple {
		if !seen[s] {
			return fmt.Errorf("triple multiplier for unknown symbol %q", s)
		}
	}
	if pt.DefaultTriple < 1 || pt.Pair < 1 {
		return errors.New("multipliers must be at least 1")
	}
	if pt.TripleChance < 0 || pt.PairChance < 0 || pt.LuckBonus < 0 {
		return errors.New("chances must not be negative")
	}
	return nil
}

// TripleMultiplier returns the multiplier paid for three of symbol.
func (pt *Paytable) TripleMultiplier(symbol string) int64 {
	if m, ok := pt.Triple[symbol]; ok {
		return m
	}
	return pt.DefaultTriple
}
