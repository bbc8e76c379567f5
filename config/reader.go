package config

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go.viam.com/robotpost/logging"
	"go.viam.com/robotpost/program"
)

// Format is the encoding of a config file.
type Format string

// Supported config formats.
const (
	FormatJSON = Format("json")
	FormatYAML = Format("yaml")
)

// FormatFromPath returns the format implied by the file extension, JSON when unknown.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadSystem reads a robot system config from the given file. Environment variables in the
// file are expanded.
func ReadSystem(path string) (*SystemConfig, error) {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &SystemConfig{}
	if err := decode(FormatFromPath(path), bytes.NewReader(buf), cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode robot system from %q", path)
	}
	return cfg, nil
}

// ReadProgram reads a program config from the given file. Environment variables in the file
// are expanded.
func ReadProgram(path string) (*ProgramConfig, error) {
	buf, err := envsubst.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &ProgramConfig{}
	if err := decode(FormatFromPath(path), bytes.NewReader(buf), cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode program from %q", path)
	}
	return cfg, nil
}

// SystemFromReader decodes a robot system config.
func SystemFromReader(format Format, r io.Reader) (*SystemConfig, error) {
	cfg := &SystemConfig{}
	if err := decode(format, r, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode robot system")
	}
	return cfg, nil
}

// ProgramFromReader decodes a program config.
func ProgramFromReader(format Format, r io.Reader) (*ProgramConfig, error) {
	cfg := &ProgramConfig{}
	if err := decode(format, r, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode program")
	}
	return cfg, nil
}

// decode reads the document into a generic map and decodes the map into result using the
// json tags, so JSON and YAML files share one schema.
func decode(format Format, r io.Reader, result interface{}) error {
	var raw map[string]interface{}
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			return err
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&raw); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown config format %q", format)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           result,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Load reads both files, builds the robot system and solves the program on it.
func Load(systemPath, programPath string, logger logging.Logger) (*program.Program, error) {
	systemCfg, err := ReadSystem(systemPath)
	if err != nil {
		return nil, err
	}
	system, err := systemCfg.Build(logger)
	if err != nil {
		return nil, err
	}
	programCfg, err := ReadProgram(programPath)
	if err != nil {
		return nil, err
	}
	return programCfg.Build(system, logger)
}
