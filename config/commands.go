package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/multierr"

	"go.viam.com/robotpost/referenceframe"
	"go.viam.com/robotpost/target"
)

// Command types understood in program files.
const (
	CommandWait    = "wait"
	CommandSetDO   = "set_do"
	CommandSetAO   = "set_ao"
	CommandMessage = "message"
	CommandCustom  = "custom"
	CommandGroup   = "group"
)

// CommandConfig describes a command. Attributes are loosely typed since they come from both
// JSON and YAML files: a wait reads "seconds", outputs read "do" or "ao" and "value", a
// message reads "text" and a custom command reads "code" and "declaration", each a map of
// manufacturer to text.
type CommandConfig struct {
	Type       string                 `json:"type"`
	Name       string                 `json:"name,omitempty"`
	RunBefore  bool                   `json:"run_before"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Commands   []CommandConfig        `json:"commands,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *CommandConfig) Validate(path string) error {
	_, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}

// Build returns the command.
func (cfg *CommandConfig) Build() (target.Command, error) {
	switch strings.ToLower(cfg.Type) {
	case CommandWait:
		seconds, err := cast.ToFloat64E(cfg.Attributes["seconds"])
		if err != nil {
			return nil, errors.Wrap(err, "wait seconds")
		}
		return target.NewWait(seconds), nil
	case CommandSetDO:
		do, err := cfg.requiredString("do")
		if err != nil {
			return nil, err
		}
		value, err := cast.ToBoolE(cfg.Attributes["value"])
		if err != nil {
			return nil, errors.Wrap(err, "digital output value")
		}
		return target.NewSetDO(do, value), nil
	case CommandSetAO:
		ao, err := cfg.requiredString("ao")
		if err != nil {
			return nil, err
		}
		value, err := cast.ToFloat64E(cfg.Attributes["value"])
		if err != nil {
			return nil, errors.Wrap(err, "analog output value")
		}
		return target.NewSetAO(ao, value), nil
	case CommandMessage:
		text, err := cast.ToStringE(cfg.Attributes["text"])
		if err != nil {
			return nil, errors.Wrap(err, "message text")
		}
		return target.NewMessage(text), nil
	case CommandCustom:
		return cfg.custom()
	case CommandGroup:
		commands := make([]target.Command, 0, len(cfg.Commands))
		var errs error
		for i := range cfg.Commands {
			c, err := cfg.Commands[i].Build()
			if err != nil {
				errs = multierr.Append(errs, errors.Wrapf(err, "commands.%d", i))
				continue
			}
			commands = append(commands, c)
		}
		if errs != nil {
			return nil, errs
		}
		return target.NewGroup(cfg.Name, commands...), nil
	default:
		return nil, errors.Errorf("unknown command type %q", cfg.Type)
	}
}

func (cfg *CommandConfig) requiredString(key string) (string, error) {
	value, err := cast.ToStringE(cfg.Attributes[key])
	if err != nil {
		return "", errors.Wrap(err, key)
	}
	if value == "" {
		return "", errors.Errorf("%s command needs %q", cfg.Type, key)
	}
	return value, nil
}

func (cfg *CommandConfig) custom() (target.Command, error) {
	if cfg.Name == "" {
		return nil, errors.New("custom command needs a name")
	}
	c := target.NewCustom(cfg.Name, cfg.RunBefore)
	code, err := manufacturerTexts(cfg.Attributes["code"])
	if err != nil {
		return nil, errors.Wrap(err, "code")
	}
	declarations, err := manufacturerTexts(cfg.Attributes["declaration"])
	if err != nil {
		return nil, errors.Wrap(err, "declaration")
	}
	for m, text := range code {
		c.AddCommand(m, text, declarations[m])
		delete(declarations, m)
	}
	for m, text := range declarations {
		c.AddCommand(m, code[referenceframe.All], text)
	}
	return c, nil
}

// manufacturerTexts reads a manufacturer to text map. A plain string applies to all.
func manufacturerTexts(value interface{}) (map[referenceframe.Manufacturer]string, error) {
	out := map[referenceframe.Manufacturer]string{}
	if value == nil {
		return out, nil
	}
	if text, ok := value.(string); ok {
		out[referenceframe.All] = text
		return out, nil
	}
	texts, err := cast.ToStringMapStringE(value)
	if err != nil {
		return nil, err
	}
	for name, text := range texts {
		m, err := referenceframe.ParseManufacturer(name)
		if err != nil {
			return nil, err
		}
		out[m] = text
	}
	return out, nil
}

func buildCommands(configs []CommandConfig, path string) ([]target.Command, error) {
	commands := make([]target.Command, 0, len(configs))
	var errs error
	for i := range configs {
		c, err := configs[i].Build()
		if err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, fmt.Sprintf("%s.%d", path, i)))
			continue
		}
		commands = append(commands, c)
	}
	return commands, errs
}
