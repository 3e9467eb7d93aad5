package universe

import (
	"sort"
	"time"

	"github.com/pkg/errors"
)

//default options
const (
	DefRows    = 25
	DefColumns = 25
	DefFps     = 10
	DefRule    = "B3/S23"
	DefEngine  = "sequential"

	MinFps       = 1
	MaxFps       = 20
	MaxDimension = 50
)

//Options represents the Universe's configurable options
type Options struct {
	Rows           int    `yaml:"rows"`
	Columns        int    `yaml:"columns"`
	Fps            int    `yaml:"fps"`
	Rule           string `yaml:"rule"`
	Engine         string `yaml:"engine"`
	Workers        int    `yaml:"workers"`
	MaxGenerations int    `yaml:"max_generations"` //0 means unlimited
	Seed           int64  `yaml:"seed"`            //0 means time based
}

//DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Rows:    DefRows,
		Columns: DefColumns,
		Fps:     DefFps,
		Rule:    DefRule,
		Engine:  DefEngine,
		Workers: DefWorkers,
	}
}

//transition computes next from cur and reports whether any cell changed.
//It must read cur only, next has the same dimensions as cur.
type transition func(cur *Grid, next *Grid, rules *RuleSet) (changed bool)

var engines = map[string]func(o Options) transition{
	"sequential": func(Options) transition { return sequentialTransition },
	"parallel":   func(o Options) transition { return newParallelTransition(o.Workers) },
}

//EngineNames lists the available transition engines
func EngineNames() []string {
	names := make([]string, 0, len(engines))
	for k := range engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

//Validate checks the options and returns the parsed rule
func (o Options) Validate() (RuleSet, error) {
	if err := validateDimensions(o.Rows, o.Columns); err != nil {
		return RuleSet{}, err
	}
	if err := validateFps(o.Fps); err != nil {
		return RuleSet{}, err
	}
	if _, ok := engines[o.Engine]; !ok {
		return RuleSet{}, errors.Wrapf(ErrInvalidArgument, "unknown engine %q", o.Engine)
	}
	if o.Workers < 0 || o.MaxGenerations < 0 {
		return RuleSet{}, errors.Wrapf(ErrInvalidArgument, "workers %d, max generations %d", o.Workers, o.MaxGenerations)
	}
	return ParseRule(o.Rule)
}

func validateFps(fps int) error {
	if fps < MinFps || fps > MaxFps {
		return errors.Wrapf(ErrInvalidArgument, "fps %d, expected %d..%d", fps, MinFps, MaxFps)
	}
	return nil
}

//Interval returns the delay between two steps at the given fps
func Interval(fps int) time.Duration {
	return time.Second / time.Duration(fps)
}
