// Package igus implements the post processor of Igus robot controllers. Only the program
// skeleton is produced.
package igus

import (
	"go.viam.com/robotpost/logging"
	"go.viam.com/robotpost/postprocessor"
	"go.viam.com/robotpost/program"
	"go.viam.com/robotpost/referenceframe"
)

func init() {
	postprocessor.Register(referenceframe.Igus, NewPostProcessor)
}

// MultiFileWarning is added to programs split into several files.
const MultiFileWarning = "Multi-file input not supported on Igus robots."

// PostProcessor generates Igus programs.
type PostProcessor struct {
	logger logging.Logger
}

// NewPostProcessor returns the Igus post processor.
func NewPostProcessor(logger logging.Logger) program.PostProcessor {
	return &PostProcessor{logger: logger.Sublogger("igus")}
}

// Code returns a single group of three units: start, body and end.
func (pp *PostProcessor) Code(_ *program.RobotSystem, p *program.Program) (program.Code, error) {
	if p.IsMultiFile() {
		p.AddWarning(MultiFileWarning)
	}
	pp.logger.Debugw("generating Igus program", "program", p.Name, "targets", len(p.Targets))
	return program.Code{{start(), body(), end()}}, nil
}

func start() []string { return []string{"A"} }

func body() []string { return []string{"B"} }

func end() []string { return []string{"C"} }
