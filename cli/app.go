// Package cli contains the robotpost command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	flagDebug   = "debug"
	flagLogFile = "log-file"
	flagSystem  = "system"
	flagProgram = "program"
	flagOut     = "out"
)

// Version variables which are replaced by LD flags.
var (
	Version     = ""
	GitRevision = ""
)

var app = &cli.App{
	Name:            "robotpost",
	Usage:           "solve robot programs and generate controller code",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:  flagLogFile,
			Usage: "also write logs to the size-rotated `FILE`",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "generate",
			Usage:     "solve a program on a robot system and write the controller files",
			UsageText: "robotpost generate --system cell.yaml --program weld.json [--out DIR]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagSystem,
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "robot system config `FILE` (JSON or YAML)",
				},
				&cli.StringFlag{
					Name:     flagProgram,
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "program config `FILE` (JSON or YAML)",
				},
				&cli.StringFlag{
					Name:    flagOut,
					Aliases: []string{"o"},
					Value:   ".",
					Usage:   "output `DIR`",
				},
			},
			Action: GenerateAction,
		},
		{
			Name:      "solve",
			Usage:     "solve a program on a robot system and print the joint table",
			UsageText: "robotpost solve --system cell.yaml --program weld.json",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagSystem,
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "robot system config `FILE` (JSON or YAML)",
				},
				&cli.StringFlag{
					Name:     flagProgram,
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "program config `FILE` (JSON or YAML)",
				},
			},
			Action: SolveAction,
		},
		{
			Name:      "schema",
			Usage:     "print the JSON schema of a config file",
			ArgsUsage: "<system|program>",
			Action:    SchemaAction,
		},
		{
			Name:   "version",
			Usage:  "print version info for this program",
			Action: VersionAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
