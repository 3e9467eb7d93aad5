package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/integrii/flaggy"

	"simlife/src/config"
	"simlife/src/universe"
	"simlife/src/view"
)

type EnvOptions struct {
	configFile string
	logFile    string
	template   string
	random     bool
}

func main() {
	cfg, eo := initOptions()

	if err := initLog(eo.logFile, cfg.Interactive); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	u, err := newUniverse(cfg)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	defer u.Close()

	if cfg.Interactive {
		v := view.NewViewTerminal()
		u.RegisterViewer(v)
		v.Start()
		return
	}

	fmt.Printf("\"The Life\" game simulation started...\n")
	out := view.NewConsoleOut(os.Stdout, 10)
	u.RegisterViewer(out)
	out.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := u.Start(); err != nil {
		log.Fatalf("%+v", err)
	}
	select {
	case <-out.Done():
	case <-sigChan:
		_ = u.Stop()
		fmt.Printf("\nStopped at generation %v\n", u.CurrentGeneration())
	}
}

//newUniverse creates the scheduler and settles it as configured
func newUniverse(cfg config.Config) (universe.Universe, error) {
	u, err := universe.NewScheduler(cfg.Universe)
	if err != nil {
		return nil, err
	}
	for _, t := range cfg.Templates {
		u.AddTemplate(t)
	}
	if cfg.Random {
		err = u.Randomize()
	} else {
		err = u.ApplyTemplate(cfg.Template)
	}
	if err != nil {
		u.Close()
		return nil, err
	}
	return u, nil
}

//initLog keeps log output away from the terminal UI unless a log file is given
func initLog(path string, interactive bool) error {
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		log.SetOutput(f)
	case interactive:
		log.SetOutput(io.Discard)
	}
	return nil
}

//initOptions reads the optional config file first, flags given on the command line override it
func initOptions() (cfg config.Config, eo *EnvOptions) {
	args := os.Args[1:]
	cfg, eo, p, err := parseFlags(config.Default(), args)
	if err == nil && eo.configFile != "" {
		var fromFile config.Config
		if fromFile, err = config.Load(eo.configFile); err == nil {
			cfg, eo, p, err = parseFlags(fromFile, args)
		}
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		p.ShowHelpAndExit(err.Error())
	}
	return
}

//parseFlags applies the command line to cfg; options without a flag keep their cfg value
func parseFlags(cfg config.Config, args []string) (config.Config, *EnvOptions, *flaggy.Parser, error) {
	eo := &EnvOptions{}
	p := flaggy.NewParser("simlife")
	p.Description = "\"The Life\" game simulation"
	p.ShowHelpOnUnexpected = true
	p.String(&eo.configFile, "f", "config", "YAML configuration file")
	p.String(&eo.logFile, "", "log", "Write log messages to this file")
	p.Int(&cfg.Universe.Rows, "y", "rows", "Number of rows of the board")
	p.Int(&cfg.Universe.Columns, "x", "columns", "Number of columns of the board")
	p.Int(&cfg.Universe.Fps, "i", "fps", "Simulation speed in generations per second")
	p.String(&cfg.Universe.Rule, "u", "rule", "Birth/survival rule in B/S notation, for example B3/S23")
	p.Int(&cfg.Universe.MaxGenerations, "s", "maxGenerations", "Limit the simulation to maxGenerations, 0 is unlimited")
	p.Int64(&cfg.Universe.Seed, "", "seed", "Seed for random boards, 0 is time based")
	p.String(&cfg.Universe.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.EngineNames(), "|")+"]")
	p.Int(&cfg.Universe.Workers, "w", "workers", "Workers of the parallel engine")
	p.Bool(&cfg.Interactive, "n", "interactive", "Start interactive mode")
	p.String(&eo.template, "t", "template", "Settle with a template instead of random data")
	p.Bool(&eo.random, "r", "random", "Settle with random data")

	if err := p.ParseArgs(args); err != nil {
		return cfg, eo, p, err
	}
	if eo.template != "" {
		cfg.Template = eo.template
		cfg.Random = false
	}
	if eo.random {
		cfg.Random = true
	}
	return cfg, eo, p, nil
}
