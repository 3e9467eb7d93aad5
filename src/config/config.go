package config

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"simlife/src/universe"
)

//Config holds the configuration of one simulation session
type Config struct {
	Universe    universe.Options    `yaml:",inline"`
	Interactive bool                `yaml:"interactive"`
	Random      bool                `yaml:"random"`   //settle with random data instead of Template
	Template    string              `yaml:"template"` //template used when Random is off
	Templates   []universe.Template `yaml:"templates"`
}

//Default returns sensible defaults
func Default() Config {
	return Config{
		Universe: universe.DefaultOptions(),
		Random:   true,
		Template: "glider",
	}
}

//Load loads the configuration from a YAML file over the defaults
func Load(filename string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		return c, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&c); err != nil {
		return c, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = c.Validate(); err != nil {
		return c, errors.Wrapf(err, "[LoadConfig] invalid configuration in file: %+v", filename)
	}
	return c, nil
}

//Validate checks the universe options and the template selection
func (c Config) Validate() error {
	if _, err := c.Universe.Validate(); err != nil {
		return err
	}
	for _, t := range c.Templates {
		if t.Name == "" {
			return errors.Wrap(universe.ErrInvalidArgument, "template without a name")
		}
		for _, xy := range t.Coordinates {
			if len(xy) != 2 {
				return errors.Wrapf(universe.ErrInvalidArgument, "template %q: coordinate %v, expected [row, col]", t.Name, xy)
			}
		}
	}
	if !c.Random && !c.hasTemplate(c.Template) {
		return errors.Wrapf(universe.ErrInvalidArgument, "unknown template %q", c.Template)
	}
	return nil
}

func (c Config) hasTemplate(name string) bool {
	for _, t := range universe.BuiltinTemplates {
		if t.Name == name {
			return true
		}
	}
	for _, t := range c.Templates {
		if t.Name == name {
			return true
		}
	}
	return false
}
