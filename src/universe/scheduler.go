package universe

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var _ Universe = (*Scheduler)(nil)

//Scheduler drives an Engine at the configured frame rate.
//It implements Universe; every method is safe to call from any goroutine and never blocks on a step delay.
type Scheduler struct {
	mu        sync.Mutex
	engine    *Engine
	options   Options
	timer     *time.Timer
	epoch     uint64 //invalidates pending steps on Stop and Close
	closed    bool
	templates map[string]Template

	pending []Status //statuses not yet delivered, in the order they were taken

	viewMu sync.Mutex
	views  []Viewer
}

//NewScheduler creates the engine from the options and registers the builtin templates
func NewScheduler(o Options) (*Scheduler, error) {
	e, err := NewEngine(o)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		engine:    e,
		options:   o,
		templates: map[string]Template{},
	}
	for _, t := range BuiltinTemplates {
		s.AddTemplate(t)
	}
	return s, nil
}

//Options returns the options with the current fps and dimensions
func (s *Scheduler) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.options
	o.Rows, o.Columns = s.engine.Dimensions()
	o.Rule = s.engine.rules.String()
	return o
}

//Status returns current universe status represented by Status struct
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

//status must be called with mu held
func (s *Scheduler) status() Status {
	e := s.engine
	st := Status{
		Generation:    e.generation,
		ExitReason:    e.exitReason,
		LiveCells:     e.grid.LiveCells(),
		IterationTime: e.iterationTime,
		Rows:          e.grid.rows,
		Columns:       e.grid.columns,
		Rule:          e.rules.String(),
		Fps:           s.options.Fps,
	}
	switch {
	case e.running:
		st.RunningMode = RunningStateRunning
	case e.exitReason != "":
		st.RunningMode = RunningStateHalted
	}
	return st
}

//Grid returns a copy of the current generation
func (s *Scheduler) Grid() *Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.grid.Clone()
}

//Cell returns the state of one cell
func (s *Scheduler) Cell(row int, col int) (Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Cell(row, col)
}

//ToggleCell inverses the cell state at row, col
func (s *Scheduler) ToggleCell(row int, col int) error {
	return s.update(func(e *Engine) error { return e.ToggleCell(row, col) })
}

//Dimensions returns the configured board size
func (s *Scheduler) Dimensions() (rows int, columns int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Dimensions()
}

//SetDimensions changes the configured size, call Randomize or Clear to apply it
func (s *Scheduler) SetDimensions(rows int, columns int) error {
	return s.update(func(e *Engine) error { return e.SetDimensions(rows, columns) })
}

//RuleFlag returns one birth or survival flag
func (s *Scheduler) RuleFlag(kind RuleKind, n int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.RuleFlag(kind, n)
}

//SetRuleFlag changes one birth or survival flag, a running simulation uses it from the next step
func (s *Scheduler) SetRuleFlag(kind RuleKind, n int, flag bool) error {
	return s.update(func(e *Engine) error { return e.SetRuleFlag(kind, n, flag) })
}

//Fps returns the target steps per second
func (s *Scheduler) Fps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options.Fps
}

//SetFps changes the target steps per second, the delay already pending is kept
func (s *Scheduler) SetFps(fps int) error {
	return s.update(func(*Engine) error {
		if err := validateFps(fps); err != nil {
			return err
		}
		s.options.Fps = fps
		return nil
	})
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call ApplyTemplate
func (s *Scheduler) AddTemplate(tmpl Template) {
	s.mu.Lock()
	s.templates[tmpl.Name] = tmpl
	s.mu.Unlock()
}

//TemplateNames returns the registered template names in order
func (s *Scheduler) TemplateNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.templates))
	for k := range s.templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//ApplyTemplate clears the board and places the named template in its middle
func (s *Scheduler) ApplyTemplate(name string) error {
	return s.update(func(e *Engine) error {
		tmpl, ok := s.templates[name]
		if !ok {
			return errors.Wrapf(ErrInvalidArgument, "unknown template %q", name)
		}
		return e.Settle(tmpl.centered(e.rows, e.columns))
	})
}

//Clear kills all cells and resets the counters
func (s *Scheduler) Clear() error {
	return s.update((*Engine).Clear)
}

//Randomize settles the board with random data using the configured dimensions
func (s *Scheduler) Randomize() error {
	return s.update((*Engine).Randomize)
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (s *Scheduler) RegisterViewer(v Viewer) {
	s.viewMu.Lock()
	s.views = append(s.views, v)
	s.viewMu.Unlock()
	v.Register(s)
}

//Start begins a run, the first step is scheduled immediately
func (s *Scheduler) Start() error {
	return s.update(func(e *Engine) error {
		if s.closed {
			return errors.Wrap(ErrInvalidState, "closed")
		}
		if err := e.Begin(); err != nil {
			return err
		}
		s.epoch++
		s.schedule(0)
		return nil
	})
}

//Stop halts the run; a step already scheduled will not execute
func (s *Scheduler) Stop() error {
	return s.update(func(e *Engine) error {
		if err := e.Halt(); err != nil {
			return err
		}
		s.cancel()
		return nil
	})
}

//Toggle starts a stopped run or stops a running one
func (s *Scheduler) Toggle() error {
	if s.IsRunning() {
		return s.Stop()
	}
	return s.Start()
}

//Step does one simulation step while stopped
func (s *Scheduler) Step() (Outcome, error) {
	var out Outcome
	err := s.update(func(e *Engine) error {
		if e.running {
			return errors.Wrap(ErrInvalidState, "manual step while running")
		}
		out = e.Step()
		return nil
	})
	return out, err
}

//IsRunning reports whether a run is in progress
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.running
}

//CurrentGeneration returns the current generation number
func (s *Scheduler) CurrentGeneration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.generation
}

//ExitReason returns why the last run halted by itself
func (s *Scheduler) ExitReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.exitReason
}

//Close stops the simulation for good
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.engine.running = false
	s.cancel()
	s.mu.Unlock()
}

//update runs fn under the lock and refreshes the viewers when it succeeds
func (s *Scheduler) update(fn func(e *Engine) error) error {
	s.mu.Lock()
	if err := fn(s.engine); err != nil {
		s.mu.Unlock()
		return err
	}
	s.pending = append(s.pending, s.status())
	s.mu.Unlock()
	s.refreshView()
	return nil
}

//schedule arms the timer for the next step of the current epoch, mu must be held
func (s *Scheduler) schedule(delay time.Duration) {
	epoch := s.epoch
	s.timer = time.AfterFunc(delay, func() { s.fire(epoch) })
}

//cancel invalidates the pending step, mu must be held
func (s *Scheduler) cancel() {
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

//fire executes one scheduled step unless the run was stopped meanwhile
func (s *Scheduler) fire(epoch uint64) {
	s.mu.Lock()
	if epoch != s.epoch || !s.engine.running {
		s.mu.Unlock()
		return
	}
	if s.engine.Step() == Advanced && s.engine.running {
		s.schedule(Interval(s.options.Fps))
	}
	s.pending = append(s.pending, s.status())
	s.mu.Unlock()
	s.refreshView()
}

//refreshView delivers the pending statuses to all registered views in the order they were taken.
//Viewers must not call back into the scheduler's mutating methods from Refresh.
func (s *Scheduler) refreshView() {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	for {
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, st := range batch {
			for _, v := range s.views {
				v.Refresh(st)
			}
		}
	}
}
