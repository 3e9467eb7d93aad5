package universe

import (
	"strings"

	"github.com/pkg/errors"
)

//RuleKind selects the birth or the survival table of a RuleSet
type RuleKind int

const (
	Birth RuleKind = iota
	Survival
)

func (k RuleKind) String() string {
	if k == Survival {
		return "survival"
	}
	return "birth"
}

//MaxNeighbours is the largest possible neighbour count
const MaxNeighbours = 8

//RuleSet holds the birth and survival tables indexed by neighbour count 1..8.
//Index 0 is never set so a cell without neighbours is never born and never survives.
type RuleSet struct {
	birth    [MaxNeighbours + 1]bool
	survival [MaxNeighbours + 1]bool
}

//DefaultRuleSet returns the classic Conway rule B3/S23
func DefaultRuleSet() RuleSet {
	var r RuleSet
	r.birth[3] = true
	r.survival[2] = true
	r.survival[3] = true
	return r
}

func checkNeighbours(n int) error {
	if n < 1 || n > MaxNeighbours {
		return errors.Wrapf(ErrInvalidArgument, "neighbour count %d, expected 1..%d", n, MaxNeighbours)
	}
	return nil
}

//SetBirth enables or disables birth at exactly n neighbours
func (r *RuleSet) SetBirth(n int, flag bool) error {
	return r.Set(Birth, n, flag)
}

//SetSurvival enables or disables survival at exactly n neighbours
func (r *RuleSet) SetSurvival(n int, flag bool) error {
	return r.Set(Survival, n, flag)
}

//Set changes one entry of the table selected by kind
func (r *RuleSet) Set(kind RuleKind, n int, flag bool) error {
	if err := checkNeighbours(n); err != nil {
		return err
	}
	r.table(kind)[n] = flag
	return nil
}

//Flag returns one entry of the table selected by kind
func (r *RuleSet) Flag(kind RuleKind, n int) (bool, error) {
	if err := checkNeighbours(n); err != nil {
		return false, err
	}
	return r.table(kind)[n], nil
}

func (r *RuleSet) table(kind RuleKind) *[MaxNeighbours + 1]bool {
	if kind == Survival {
		return &r.survival
	}
	return &r.birth
}

//ShouldBirth reports whether a dead cell with n live neighbours becomes alive
func (r *RuleSet) ShouldBirth(n int) bool {
	return n >= 1 && n <= MaxNeighbours && r.birth[n]
}

//ShouldSurvive reports whether a live cell with n live neighbours stays alive
func (r *RuleSet) ShouldSurvive(n int) bool {
	return n >= 1 && n <= MaxNeighbours && r.survival[n]
}

//next returns the state of a cell in the following generation
func (r *RuleSet) next(c Cell, n int) Cell {
	if c == Alive {
		if r.ShouldSurvive(n) {
			return Alive
		}
		return Dead
	}
	if r.ShouldBirth(n) {
		return Alive
	}
	return Dead
}

//String formats the rule in B/S notation, e.g. B3/S23
func (r RuleSet) String() string {
	var b strings.Builder
	b.WriteByte('B')
	for n := 1; n <= MaxNeighbours; n++ {
		if r.birth[n] {
			b.WriteByte(byte('0' + n))
		}
	}
	b.WriteString("/S")
	for n := 1; n <= MaxNeighbours; n++ {
		if r.survival[n] {
			b.WriteByte(byte('0' + n))
		}
	}
	return b.String()
}

//ParseRule parses B/S notation such as "B3/S23" or "b36/s23" (HighLife)
func ParseRule(s string) (RuleSet, error) {
	var r RuleSet
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(s)), "/")
	if len(parts) != 2 {
		return r, errors.Wrapf(ErrInvalidArgument, "rule %q, expected B<digits>/S<digits>", s)
	}
	seen := map[byte]bool{}
	for _, part := range parts {
		if part == "" || (part[0] != 'B' && part[0] != 'S') || seen[part[0]] {
			return r, errors.Wrapf(ErrInvalidArgument, "rule %q, expected B<digits>/S<digits>", s)
		}
		seen[part[0]] = true
		kind := Birth
		if part[0] == 'S' {
			kind = Survival
		}
		for _, d := range part[1:] {
			if d < '0' || d > '9' {
				return r, errors.Wrapf(ErrInvalidArgument, "rule %q, unexpected %q", s, d)
			}
			if err := r.Set(kind, int(d-'0'), true); err != nil {
				return r, errors.Wrapf(err, "rule %q", s)
			}
		}
	}
	return r, nil
}
