package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/scorelog/internal/config"
	"github.com/hpungsan/scorelog/internal/errors"
	"github.com/hpungsan/scorelog/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "scorelog",
		Usage:   "Behavioral scoring log toolkit",
		Version: Version,
		Commands: []*cli.Command{
			transferCmd(db, cfg),
			validateCmd(cfg),
			inspectCmd(),
			reportCmd(cfg),
			runsCmd(db),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// transferCmd creates the transfer command.
func transferCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "transfer",
		Usage:     "Transfer lights-on marks into each group's fully scored log",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Compute marks without rewriting files or recording runs"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("dir argument is required"))
			}

			output, err := ops.Transfer(db, cfg, ops.TransferInput{
				Dir:    c.Args().First(),
				DryRun: c.Bool("dry-run"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Partition a directory's log files and validate each group",
		ArgsUsage: "<dir>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("dir argument is required"))
			}

			output, err := ops.Validate(cfg, ops.ValidateInput{Dir: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// inspectCmd creates the inspect command.
func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Parse one log file and report its sections, behaviors, and marks",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("file argument is required"))
			}

			output, err := ops.Inspect(ops.InspectInput{Path: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// reportCmd creates the report command.
func reportCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Render a markdown summary of a directory's groups and validation state",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "html", Usage: "Emit rendered HTML instead of markdown"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("dir argument is required"))
			}

			output, err := ops.Report(cfg, ops.ReportInput{
				Dir:  c.Args().First(),
				HTML: c.Bool("html"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("html") {
				fmt.Println(output.HTML)
			} else {
				fmt.Println(output.Markdown)
			}
			return nil
		},
	}
}

// runsCmd creates the runs command.
func runsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recorded mark transfers, most recent first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "Show the single run with this ID"},
			&cli.StringFlag{Name: "core", Usage: "Only list runs for this group core"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultRunsLimit, Usage: "Maximum runs to return"},
			&cli.IntFlag{Name: "offset", Usage: "Runs to skip"},
		},
		Action: func(c *cli.Context) error {
			if id := c.String("id"); id != "" {
				run, err := ops.RunGet(db, ops.RunGetInput{ID: id})
				if err != nil {
					return outputError(err)
				}
				return outputJSON(run)
			}

			output, err := ops.Runs(db, ops.RunsInput{
				NameCore: c.String("core"),
				Limit:    c.Int("limit"),
				Offset:   c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// outputJSON prints a value as indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if logErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", logErr.Code, logErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
