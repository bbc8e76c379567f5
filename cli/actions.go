package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/robotpost/config"
	"go.viam.com/robotpost/logging"
	"go.viam.com/robotpost/postprocessor"
	// register all post processors.
	_ "go.viam.com/robotpost/postprocessor/register"
)

var (
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// printf prints a message with no prefix.
func printf(c *cli.Context, format string, a ...interface{}) {
	fmt.Fprintf(c.App.Writer, format+"\n", a...)
}

// warningf prints a message prefixed with a yellow "Warning: ".
func warningf(c *cli.Context, format string, a ...interface{}) {
	warningColor.Fprint(c.App.ErrWriter, "Warning: ")
	fmt.Fprintf(c.App.ErrWriter, format+"\n", a...)
}

// errorf prints a message prefixed with a red "Error: ".
func errorf(c *cli.Context, format string, a ...interface{}) {
	errorColor.Fprint(c.App.ErrWriter, "Error: ")
	fmt.Fprintf(c.App.ErrWriter, format+"\n", a...)
}

func newLogger(c *cli.Context) logging.Logger {
	var appenders []logging.Appender
	level := logging.INFO
	if c.Bool(flagDebug) {
		appenders = append(appenders, logging.NewStdoutAppender())
		level = logging.DEBUG
	}
	if path := c.String(flagLogFile); path != "" {
		level = logging.DEBUG
		appenders = append(appenders, logging.NewFileAppender(logging.FileAppenderConfig{
			Filename:   path,
			MaxSizeMB:  10,
			MaxBackups: 3,
		}))
	}
	if len(appenders) == 0 {
		return logging.NewBlankLogger("robotpost")
	}
	return logging.NewLoggerWithAppenders("robotpost", level, appenders...)
}

// GenerateAction solves a program and writes its controller files. Kinematic errors are
// reported but do not fail the command; generation errors do, after every group that could
// be generated has been written.
func GenerateAction(c *cli.Context) error {
	logger := newLogger(c)
	p, err := config.Load(c.String(flagSystem), c.String(flagProgram), logger)
	if err != nil {
		return err
	}

	code, genErr := p.Code()
	paths, saveErr := postprocessor.Save(c.String(flagOut), p.System.PostProcessor, p, code)
	for _, path := range paths {
		printf(c, "wrote %s", path)
	}
	for _, warning := range p.Warnings() {
		warningf(c, "%s", warning)
	}
	for _, e := range p.Errors() {
		errorf(c, "%s", e)
	}
	if genErr != nil {
		return errors.Wrapf(genErr, "generating code for %q", p.Name)
	}
	if saveErr != nil {
		return saveErr
	}
	printf(c, "%s: %d targets, estimated duration %.1f s", p.Name, len(p.Targets), p.Duration)
	return nil
}

// SolveAction solves a program without generating code and prints every target's joints.
func SolveAction(c *cli.Context) error {
	p, err := config.Load(c.String(flagSystem), c.String(flagProgram), newLogger(c))
	if err != nil {
		return err
	}
	printf(c, "%s", p.Table())
	for _, e := range p.Errors() {
		errorf(c, "%s", e)
	}
	return nil
}

// SchemaAction prints the JSON schema of a config file kind.
func SchemaAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.Errorf("expected one argument, %q or %q", config.KindSystem, config.KindProgram)
	}
	schema, err := config.Schema(c.Args().First())
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	printf(c, "%s", out)
	return nil
}

// VersionAction prints the version and git revision the binary was built from.
func VersionAction(c *cli.Context) error {
	version, revision := Version, GitRevision
	if version == "" {
		version = "dev"
	}
	if revision == "" {
		revision = "unknown"
	}
	printf(c, "robotpost %s (%s)", version, revision)
	return nil
}
