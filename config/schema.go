package config

import (
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Kinds of config file.
const (
	KindSystem  = "system"
	KindProgram = "program"
)

var schemas = map[string]func() *jsonschema.Schema{
	KindSystem:  func() *jsonschema.Schema { return jsonschema.Reflect(&SystemConfig{}) },
	KindProgram: func() *jsonschema.Schema { return jsonschema.Reflect(&ProgramConfig{}) },
}

// Schema returns the JSON schema of a config file kind.
func Schema(kind string) (*jsonschema.Schema, error) {
	reflect, ok := schemas[kind]
	if !ok {
		return nil, errors.Errorf("unknown config kind %q, expected %q or %q", kind, KindSystem, KindProgram)
	}
	return reflect(), nil
}
