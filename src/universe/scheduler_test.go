package universe

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

//chanViewer forwards every refreshed status to a channel
type chanViewer struct {
	ch chan Status
}

func (v *chanViewer) Refresh(st Status) { v.ch <- st }
func (v *chanViewer) Register(Universe) {}
func (v *chanViewer) Start()            {}

func newTestScheduler(t *testing.T, rows int, columns int, fps int) (*Scheduler, *chanViewer) {
	t.Helper()
	o := DefaultOptions()
	o.Rows, o.Columns, o.Fps, o.Seed = rows, columns, fps, 3
	s, err := NewScheduler(o)
	if err != nil {
		t.Fatal(err)
	}
	v := &chanViewer{ch: make(chan Status, 1024)}
	s.RegisterViewer(v)
	t.Cleanup(s.Close)
	return s, v
}

//waitFor returns the first status matching fn
func waitFor(t *testing.T, v *chanViewer, fn func(Status) bool) Status {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case st := <-v.ch:
			if fn(st) {
				return st
			}
		case <-timeout:
			t.Fatal("timed out waiting for status")
		}
	}
}

func TestSchedulerHaltsOnLoop(t *testing.T) {
	s, v := newTestScheduler(t, 5, 5, MaxFps)
	if err := s.ApplyTemplate("blinker"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	st := waitFor(t, v, func(st Status) bool { return st.RunningMode == RunningStateHalted })
	if st.ExitReason != "Exited because of a loop after 2 generations." {
		t.Fatalf("exit reason %q", st.ExitReason)
	}
	if st.Text() != st.ExitReason {
		t.Fatalf("status text %q", st.Text())
	}
	if s.IsRunning() || s.CurrentGeneration() != 2 || s.ExitReason() != st.ExitReason {
		t.Fatalf("running %v generation %d", s.IsRunning(), s.CurrentGeneration())
	}
}

func TestSchedulerHaltsWhenStable(t *testing.T) {
	s, v := newTestScheduler(t, 8, 8, MaxFps)
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	st := waitFor(t, v, func(st Status) bool { return st.RunningMode == RunningStateHalted })
	if st.ExitReason != "Exited in stable state after 1 generations." {
		t.Fatalf("exit reason %q", st.ExitReason)
	}
}

func TestSchedulerStopCancelsPendingStep(t *testing.T) {
	s, v := newTestScheduler(t, 20, 20, MaxFps)
	if err := s.ApplyTemplate("glider"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, v, func(st Status) bool { return st.Generation >= 3 })
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	gen := s.CurrentGeneration()
	time.Sleep(5 * Interval(MaxFps))
	if s.CurrentGeneration() != gen || s.IsRunning() {
		t.Fatalf("generation moved from %d to %d after stop", gen, s.CurrentGeneration())
	}
	if s.ExitReason() != "" {
		t.Fatalf("stop set exit reason %q", s.ExitReason())
	}
}

func TestSchedulerRunningState(t *testing.T) {
	s, _ := newTestScheduler(t, 20, 20, MinFps)
	_ = s.ApplyTemplate("glider")
	if err := s.Stop(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("stop while stopped: %v", err)
	}
	if err := s.Toggle(); err != nil || !s.IsRunning() {
		t.Fatalf("toggle: %v, running %v", err, s.IsRunning())
	}
	if s.Status().Text() == "" {
		t.Fatal("empty status text while running")
	}
	if err := s.Start(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("start while running: %v", err)
	}
	if _, err := s.Step(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("manual step while running: %v", err)
	}
	if err := s.Toggle(); err != nil || s.IsRunning() {
		t.Fatalf("toggle: %v, running %v", err, s.IsRunning())
	}
	s.Close()
	if err := s.Start(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("start after close: %v", err)
	}
}

func TestSchedulerEditsAndSettings(t *testing.T) {
	s, _ := newTestScheduler(t, 6, 6, DefFps)
	_ = s.Clear()
	if err := s.ToggleCell(2, 3); err != nil {
		t.Fatal(err)
	}
	if c, _ := s.Cell(2, 3); c != Alive {
		t.Fatal("toggle not visible")
	}
	if err := s.ToggleCell(6, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := s.SetRuleFlag(Birth, 0, true); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := s.SetRuleFlag(Birth, 9, true); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := s.SetRuleFlag(Birth, 6, true); err != nil {
		t.Fatal(err)
	}
	if f, _ := s.RuleFlag(Birth, 6); !f {
		t.Fatal("birth 6 not set")
	}
	if s.Status().Rule != "B36/S23" {
		t.Fatalf("rule %q", s.Status().Rule)
	}
	for _, fps := range []int{0, 21} {
		if err := s.SetFps(fps); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("SetFps(%d): %v", fps, err)
		}
	}
	if err := s.SetFps(15); err != nil || s.Fps() != 15 {
		t.Fatalf("SetFps(15): %v, fps %d", err, s.Fps())
	}
	if err := s.SetDimensions(10, 12); err != nil {
		t.Fatal(err)
	}
	if err := s.Randomize(); err != nil {
		t.Fatal(err)
	}
	if g := s.Grid(); g.Rows() != 10 || g.Columns() != 12 {
		t.Fatalf("grid is %dx%d", g.Rows(), g.Columns())
	}
	if rows, columns := s.Dimensions(); rows != 10 || columns != 12 {
		t.Fatalf("dimensions %dx%d", rows, columns)
	}
	if err := s.ApplyTemplate("nope"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSchedulerManualStep(t *testing.T) {
	s, _ := newTestScheduler(t, 5, 5, DefFps)
	_ = s.ApplyTemplate("plus")
	out, err := s.Step()
	if err != nil || out != Advanced {
		t.Fatalf("step: %v, %v", out, err)
	}
	if s.CurrentGeneration() != 1 {
		t.Fatalf("generation %d", s.CurrentGeneration())
	}
	if st := s.Status(); st.RunningMode != RunningStateStopped || st.Text() != "" {
		t.Fatalf("status %+v", st)
	}
}

func TestTemplateNames(t *testing.T) {
	s, _ := newTestScheduler(t, 5, 5, DefFps)
	s.AddTemplate(Template{Name: "dot", Coordinates: [][]int{{0, 0}}})
	names := s.TemplateNames()
	if len(names) != len(BuiltinTemplates)+1 {
		t.Fatalf("names %v", names)
	}
	if err := s.ApplyTemplate("dot"); err != nil {
		t.Fatal(err)
	}
	if c, _ := s.Cell(2, 2); c != Alive {
		t.Fatal("template not centered")
	}
}

func TestSchedulerEditsWhileRunning(t *testing.T) {
	s, v := newTestScheduler(t, 20, 20, MaxFps)
	if err := s.ApplyTemplate("glider"); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, v, func(st Status) bool { return st.Generation >= 3 })
	if err := s.ToggleCell(0, 0); err != nil {
		t.Fatal(err)
	}
	if !s.IsRunning() || s.ExitReason() != "" {
		t.Fatalf("running %v reason %q after toggle", s.IsRunning(), s.ExitReason())
	}
	if gen := s.CurrentGeneration(); gen > 1 {
		t.Fatalf("generation %d after toggle, expected a restart from 0", gen)
	}

	//no birth and no survival: the next step kills everything, the one after is stable
	for _, f := range []struct {
		kind RuleKind
		n    int
	}{{Birth, 3}, {Survival, 2}, {Survival, 3}} {
		if err := s.SetRuleFlag(f.kind, f.n, false); err != nil {
			t.Fatal(err)
		}
	}
	if !s.IsRunning() {
		t.Fatal("rule change stopped the run")
	}
	st := waitFor(t, v, func(st Status) bool { return st.RunningMode == RunningStateHalted })
	if st.LiveCells != 0 || !strings.HasPrefix(st.ExitReason, "Exited in stable state after") {
		t.Fatalf("halted with %d live cells: %q", st.LiveCells, st.ExitReason)
	}
}

func TestSchedulerStartAfterLimit(t *testing.T) {
	o := DefaultOptions()
	o.Rows, o.Columns, o.Fps, o.Seed, o.MaxGenerations = 20, 20, MaxFps, 3, 3
	s, err := NewScheduler(o)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	v := &chanViewer{ch: make(chan Status, 1024)}
	s.RegisterViewer(v)
	_ = s.ApplyTemplate("glider")
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	st := waitFor(t, v, func(st Status) bool { return st.RunningMode == RunningStateHalted })
	if st.Generation != 3 {
		t.Fatalf("halted at generation %d", st.Generation)
	}
	if err := s.Start(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("start past the limit: %v", err)
	}
	if s.CurrentGeneration() != 3 || s.IsRunning() {
		t.Fatalf("generation %d running %v", s.CurrentGeneration(), s.IsRunning())
	}
	_ = s.Randomize()
	if err := s.Start(); err != nil {
		t.Fatalf("start after randomize: %v", err)
	}
}

func TestViewersReceiveStatusesInOrder(t *testing.T) {
	s, v := newTestScheduler(t, 5, 5, DefFps)
	_ = s.ApplyTemplate("blinker")
	for len(v.ch) > 0 {
		<-v.ch
	}

	//a halted status taken before a Randomize must still reach the viewers, and first
	s.mu.Lock()
	s.engine.exitReason = "Exited because of a loop after 2 generations."
	s.pending = append(s.pending, s.status())
	s.mu.Unlock()
	if err := s.Randomize(); err != nil {
		t.Fatal(err)
	}
	s.refreshView()

	if first := <-v.ch; first.RunningMode != RunningStateHalted {
		t.Fatalf("first status %+v, expected halted", first)
	}
	if second := <-v.ch; second.RunningMode != RunningStateStopped || second.ExitReason != "" {
		t.Fatalf("second status %+v, expected stopped", second)
	}
	if len(v.ch) != 0 {
		t.Fatalf("%d extra statuses", len(v.ch))
	}
}
