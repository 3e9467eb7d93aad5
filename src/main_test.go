package main

import (
	"testing"

	"simlife/src/config"
	"simlife/src/universe"
)

func TestParseFlagsOverridesConfig(t *testing.T) {
	fromFile := config.Default()
	fromFile.Universe.Rows = 40
	fromFile.Universe.Fps = 4
	fromFile.Universe.Rule = "B36/S23"

	//values equal to the defaults must still win over the file
	cfg, eo, _, err := parseFlags(fromFile, []string{"--fps", "10", "--rule", "B3/S23", "--engine", "parallel", "-t", "toad", "-f", "life.yaml"})
	if err != nil {
		t.Fatal(err)
	}
	o := cfg.Universe
	if o.Rows != 40 || o.Fps != 10 || o.Rule != universe.DefRule || o.Engine != "parallel" {
		t.Fatalf("unexpected options %+v", o)
	}
	if cfg.Random || cfg.Template != "toad" || eo.configFile != "life.yaml" {
		t.Fatalf("template %q random %v config %q", cfg.Template, cfg.Random, eo.configFile)
	}
}

func TestParseFlagsKeepsConfigWithoutFlags(t *testing.T) {
	fromFile := config.Default()
	fromFile.Universe.Fps = 4
	fromFile.Universe.MaxGenerations = 7
	fromFile.Interactive = true

	cfg, _, _, err := parseFlags(fromFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Universe.Fps != 4 || cfg.Universe.MaxGenerations != 7 || !cfg.Interactive || !cfg.Random {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestNewUniverseWithTemplate(t *testing.T) {
	cfg := config.Default()
	cfg.Universe.Rows, cfg.Universe.Columns, cfg.Universe.Seed = 7, 7, 1
	cfg.Random = false
	cfg.Template = "dot"
	cfg.Templates = []universe.Template{{Name: "dot", Coordinates: [][]int{{0, 0}}}}

	u, err := newUniverse(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer u.Close()
	if live := u.Status().LiveCells; live != 1 {
		t.Fatalf("%d live cells, expected 1", live)
	}
	if c, _ := u.Cell(3, 3); c != universe.Alive {
		t.Fatal("template not placed in the middle")
	}
}

func Benchmark_Universe(b *testing.B) {
	cfg := config.Default()
	cfg.Universe.Rows, cfg.Universe.Columns, cfg.Universe.Seed = universe.MaxDimension, universe.MaxDimension, 1
	u, err := newUniverse(cfg)
	if err != nil {
		b.Fatal(err)
	}
	defer u.Close()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		_ = u.Randomize()
		b.StartTimer()
		_, _ = u.Step()
	}
}
