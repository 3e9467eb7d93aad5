package universe

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
)

//Outcome is the result of one Engine.Step
type Outcome int

const (
	Advanced     Outcome = iota //a new generation was committed
	Stable                      //nothing changed, the run is halted
	Oscillating                 //the new generation repeats a recent one, the run is halted
	LimitReached                //the generation limit was hit, the run is halted
)

func (o Outcome) String() string {
	switch o {
	case Advanced:
		return "advanced"
	case Stable:
		return "stable"
	case Oscillating:
		return "oscillating"
	case LimitReached:
		return "limit reached"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

const (
	stableReason = "Exited in stable state after %d generations."
	loopReason   = "Exited because of a loop after %d generations."
	limitReason  = "Exited after reaching the generation limit of %d."
)

//Engine owns the grid, the rule set, the history and the run state of one simulation.
//It is not safe for concurrent use; Scheduler serializes access to it.
type Engine struct {
	grid    *Grid
	next    *Grid
	rules   RuleSet
	history History

	//configured dimensions used by Clear and Randomize
	rows    int
	columns int

	generation     int
	running        bool
	exitReason     string
	maxGenerations int
	iterationTime  time.Duration

	transition transition
	rng        *rand.Rand
}

//NewEngine creates an engine with a randomized board of the configured size
func NewEngine(o Options) (*Engine, error) {
	rules, err := o.Validate()
	if err != nil {
		return nil, err
	}
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		grid:           newGrid(o.Rows, o.Columns),
		rules:          rules,
		rows:           o.Rows,
		columns:        o.Columns,
		maxGenerations: o.MaxGenerations,
		transition:     engines[o.Engine](o),
		rng:            rand.New(rand.NewPCG(uint64(seed), 0)),
	}
	if err := e.Randomize(); err != nil {
		return nil, err
	}
	return e, nil
}

//Grid returns the current generation; callers must not modify it
func (e *Engine) Grid() *Grid { return e.grid }

//Cell returns the state of one cell of the current generation
func (e *Engine) Cell(row int, col int) (Cell, error) {
	return e.grid.Get(row, col)
}

//ToggleCell flips one cell and resets the generation counter
func (e *Engine) ToggleCell(row int, col int) error {
	if _, err := e.grid.Toggle(row, col); err != nil {
		return err
	}
	e.resetRun()
	return nil
}

//Settle clears the board and makes the cells at the [row, col] coordinates alive.
//Coordinates outside the board are skipped.
func (e *Engine) Settle(coordinates [][]int) error {
	if err := e.grid.Clear(e.rows, e.columns); err != nil {
		return err
	}
	for _, c := range coordinates {
		if len(c) != 2 {
			return errors.Wrapf(ErrInvalidArgument, "coordinate %v, expected [row, col]", c)
		}
		if err := e.grid.Set(c[0], c[1], Alive); err != nil && !errors.Is(err, ErrOutOfRange) {
			return err
		}
	}
	e.resetRun()
	return nil
}

//Dimensions returns the configured board size
func (e *Engine) Dimensions() (rows int, columns int) {
	return e.rows, e.columns
}

//SetDimensions changes the configured size; the grid keeps its size until Clear or Randomize
func (e *Engine) SetDimensions(rows int, columns int) error {
	if err := validateDimensions(rows, columns); err != nil {
		return err
	}
	e.rows, e.columns = rows, columns
	return nil
}

//Clear kills every cell, using the configured dimensions
func (e *Engine) Clear() error {
	if err := e.grid.Clear(e.rows, e.columns); err != nil {
		return err
	}
	e.resetRun()
	return nil
}

//Randomize fills the board with random cells, using the configured dimensions
func (e *Engine) Randomize() error {
	if err := e.grid.Randomize(e.rng, e.rows, e.columns); err != nil {
		return err
	}
	e.resetRun()
	return nil
}

//resetRun is applied after every manual board change
func (e *Engine) resetRun() {
	e.generation = 0
	e.exitReason = ""
	e.history.Reset()
}

//RuleFlag returns one birth or survival flag
func (e *Engine) RuleFlag(kind RuleKind, n int) (bool, error) {
	return e.rules.Flag(kind, n)
}

//SetRuleFlag changes one birth or survival flag
func (e *Engine) SetRuleFlag(kind RuleKind, n int, flag bool) error {
	return e.rules.Set(kind, n, flag)
}

//Running reports whether a run is in progress
func (e *Engine) Running() bool { return e.running }

//Generation returns the current generation number
func (e *Engine) Generation() int { return e.generation }

//ExitReason returns why the last run halted by itself, or ""
func (e *Engine) ExitReason() string { return e.exitReason }

//HistoryLen returns the number of grids kept for loop detection
func (e *Engine) HistoryLen() int { return e.history.Len() }

//Begin starts a run: the history is seeded with the current grid and the generation advances once
func (e *Engine) Begin() error {
	if e.running {
		return errors.Wrap(ErrInvalidState, "already running")
	}
	if e.maxGenerations > 0 && e.generation >= e.maxGenerations {
		return errors.Wrapf(ErrInvalidState, "generation limit of %d reached", e.maxGenerations)
	}
	e.history.Reset()
	e.history.Push(e.grid)
	e.running = true
	e.exitReason = ""
	e.generation++
	return nil
}

//Halt stops a run without touching the exit reason
func (e *Engine) Halt() error {
	if !e.running {
		return errors.Wrap(ErrInvalidState, "not running")
	}
	e.running = false
	return nil
}

func (e *Engine) finish(format string, n int) {
	e.running = false
	e.exitReason = fmt.Sprintf(format, n)
}

//Step computes one generation.
//An unchanged grid halts the run as stable. A grid equal to one of the kept history entries
//halts the run as oscillating and is not committed. Otherwise the new grid is committed,
//the generation advances and the grid is appended to the history.
func (e *Engine) Step() Outcome {
	if e.maxGenerations > 0 && e.generation >= e.maxGenerations {
		e.finish(limitReason, e.maxGenerations)
		return LimitReached
	}
	if e.next == nil || e.next.rows != e.grid.rows || e.next.columns != e.grid.columns {
		e.next = newGrid(e.grid.rows, e.grid.columns)
	}

	start := time.Now()
	changed := e.transition(e.grid, e.next, &e.rules)
	e.iterationTime = time.Since(start)

	if !changed {
		e.finish(stableReason, e.generation)
		return Stable
	}
	if e.history.Contains(e.next) {
		e.finish(loopReason, e.generation)
		return Oscillating
	}
	e.grid, e.next = e.next, e.grid
	e.generation++
	e.history.Push(e.grid)
	return Advanced
}
