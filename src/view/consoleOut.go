package view

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"simlife/src/universe"
)

//ConsoleOut prints the progress of a headless run
type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	startTime time.Time
	every     int
	done      chan struct{}
	once      sync.Once
}

//NewConsoleOut returns a viewer printing to w every n generations
func NewConsoleOut(w io.Writer, every int) *ConsoleOut {
	if every <= 0 {
		every = 10
	}
	return &ConsoleOut{w: w, every: every, done: make(chan struct{})}
}

//Done is closed once the run halts by itself
func (c *ConsoleOut) Done() <-chan struct{} {
	return c.done
}

func (c *ConsoleOut) Refresh(st universe.Status) {
	switch st.RunningMode {
	case universe.RunningStateHalted:
		c.once.Do(func() {
			totalTime := time.Since(c.startTime).Round(time.Millisecond)
			_, _ = fmt.Fprintln(c.w, "\nFinished:")
			c.printHashData(map[string]interface{}{
				"Generation": st.Generation,
				"Total time": totalTime,
				"Live cells": st.LiveCells,
				"Reason":     st.ExitReason,
			})
			close(c.done)
		})
	case universe.RunningStateRunning:
		if st.Generation%c.every == 0 {
			_, _ = fmt.Fprintf(c.w, "  %s, live cells: %v\n", st.Text(), st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	c.printHashData(map[string]interface{}{
		"Dimension":       fmt.Sprintf("%v x %v", o.Rows, o.Columns),
		"Fps":             o.Fps,
		"Rule":            o.Rule,
		"Engine":          o.Engine,
		"Max generations": o.MaxGenerations,
	})
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
