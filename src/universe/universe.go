package universe

import (
	"fmt"
	"time"
)

//Universe is the contract the presentation layer uses to drive a simulation
type Universe interface {
	Status() Status
	Options() Options
	Grid() *Grid
	Cell(row int, col int) (Cell, error)
	ToggleCell(row int, col int) error
	Dimensions() (rows int, columns int)
	SetDimensions(rows int, columns int) error
	RuleFlag(kind RuleKind, n int) (bool, error)
	SetRuleFlag(kind RuleKind, n int, flag bool) error
	Fps() int
	SetFps(fps int) error
	AddTemplate(tmpl Template)
	ApplyTemplate(name string) error
	TemplateNames() []string
	RegisterViewer(v Viewer)
	Start() error
	Stop() error
	Toggle() error
	Step() (Outcome, error)
	IsRunning() bool
	Clear() error
	Randomize() error
	CurrentGeneration() int
	ExitReason() string
	Close()
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh(st Status)
	Register(u Universe)
	Start()
}

//RunningState is the universe running status at the concrete moment
type RunningState int

const (
	RunningStateStopped RunningState = 0x0
	RunningStateRunning RunningState = 0x1
	RunningStateHalted  RunningState = 0x2 //stopped by the engine, ExitReason is set
)

//Status represents the status of the Universe at concrete moment
type Status struct {
	Generation    int
	RunningMode   RunningState
	ExitReason    string
	LiveCells     int
	IterationTime time.Duration
	Rows          int
	Columns       int
	Rule          string
	Fps           int
}

//Running reports whether the status was taken during a run
func (s Status) Running() bool {
	return s.RunningMode == RunningStateRunning
}

//Text is the status line: the generation while running, the exit reason once halted
func (s Status) Text() string {
	switch {
	case s.Running():
		return fmt.Sprintf("Generation: %d", s.Generation)
	case s.ExitReason != "":
		return s.ExitReason
	}
	return ""
}
