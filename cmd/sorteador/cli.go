package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/sorteador/internal/draw"
	"github.com/hpungsan/sorteador/internal/errors"
	"github.com/hpungsan/sorteador/internal/ops"
	"github.com/hpungsan/sorteador/internal/session"
	"github.com/hpungsan/sorteador/internal/web"
)

// stdout and stdin are swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
	stderr io.Writer = os.Stderr
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(sess *session.Session) *cli.App {
	app := &cli.App{
		Name:    "sorteador",
		Usage:   "Random name drawer over a spreadsheet column",
		Version: Version,
		Commands: []*cli.Command{
			loadCmd(sess),
			columnsCmd(sess),
			columnCmd(sess),
			drawCmd(sess),
			rankedCmd(sess),
			groupsCmd(sess),
			categoryCmd(sess),
			exportCmd(sess),
			historyCmd(sess),
			chartCmd(sess),
			statusCmd(sess),
			serveCmd(sess),
			mcpCmd(sess),
		},
	}
	// Prize text is free-form and may contain commas.
	app.DisableSliceFlagSeparator = true
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// loadCmd creates the load command.
func loadCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Load a spreadsheet and select a column",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "column", Aliases: []string{"c"}, Usage: "Column letter (defaults to the first column)"},
			&cli.StringFlag{Name: "category-column", Usage: "Column letter holding the item category"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("path is required"))
			}

			output, err := ops.Load(sess, ops.LoadInput{
				Path:           c.Args().First(),
				Column:         c.String("column"),
				CategoryColumn: c.String("category-column"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// columnsCmd creates the columns command.
func columnsCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "columns",
		Usage: "List the columns of the loaded spreadsheet",
		Action: func(c *cli.Context) error {
			output, err := ops.Columns(sess)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// columnCmd creates the column command.
func columnCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:      "column",
		Usage:     "Switch the drawn column of the loaded spreadsheet",
		ArgsUsage: "<letter>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("column is required"))
			}

			output, err := ops.SelectColumn(sess, ops.SelectColumnInput{Column: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// drawCmd creates the draw command.
func drawCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "draw",
		Usage: "Draw distinct names",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "quantity", Aliases: []string{"n"}, Usage: "How many names to draw"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Draw(sess, ops.DrawInput{Quantity: intFlag(c, "quantity")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// rankedCmd creates the ranked command.
func rankedCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "ranked",
		Usage: "Draw names in placing order, optionally with prizes",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "quantity", Aliases: []string{"n"}, Usage: "How many places to draw"},
			&cli.StringFlag{Name: "prize-mode", Aliases: []string{"m"}, Value: "none", Usage: "Prizes: none|default|custom"},
			&cli.StringSliceFlag{Name: "prize", Aliases: []string{"p"}, Usage: "Custom prize, once per place (asked interactively when omitted)"},
		},
		Action: func(c *cli.Context) error {
			mode, err := draw.ParsePrizeMode(c.String("prize-mode"))
			if err != nil {
				return outputError(err)
			}

			input := ops.RankedInput{
				Quantity:  intFlag(c, "quantity"),
				PrizeMode: mode,
				Prizes:    c.StringSlice("prize"),
			}
			if mode == draw.PrizeCustom && len(input.Prizes) == 0 && isTerminal() {
				input.Prompter = linePrompter(stdin, stderr)
			}

			output, err := ops.Ranked(sess, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// groupsCmd creates the groups command.
func groupsCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "groups",
		Usage: "Split every name into balanced groups",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "groups", Aliases: []string{"g"}, Usage: "How many groups"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Groups(sess, ops.GroupsInput{Groups: intFlag(c, "groups")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// categoryCmd creates the category command.
func categoryCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:      "category",
		Usage:     "Draw names from one category",
		ArgsUsage: "[category]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "quantity", Aliases: []string{"n"}, Usage: "How many names to draw"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Category(sess, ops.CategoryInput{
				Category: strings.Join(c.Args().Slice(), " "),
				Quantity: intFlag(c, "quantity"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export the last result to a new spreadsheet",
		ArgsUsage: "[path]",
		Action: func(c *cli.Context) error {
			output, err := ops.Export(sess, ops.ExportInput{Path: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// historyCmd creates the history command and its clear subcommand.
func historyCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show the draw history",
		Subcommands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Delete every history entry",
				Action: func(c *cli.Context) error {
					output, err := ops.ClearHistory(sess)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
		Action: func(c *cli.Context) error {
			return outputJSON(ops.History(sess))
		},
	}
}

// chartCmd creates the chart command.
func chartCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "Show the distribution of the loaded names",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "xlsx", Usage: "Also save the distribution with a chart to this workbook"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Chart(sess, ops.ChartInput{XLSXPath: c.String("xlsx")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the loaded spreadsheet and session state",
		Action: func(c *cli.Context) error {
			return outputJSON(ops.Status(sess))
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Address to bind (defaults to web_bind)"},
			&cli.IntFlag{Name: "port", Usage: "Port to listen on (defaults to web_port)"},
		},
		Action: func(c *cli.Context) error {
			bind := sess.Config.WebBind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := sess.Config.WebPort
			if c.IsSet("port") {
				port = c.Int("port")
			}
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("port must be between 1 and 65535 (got %d)", port)))
			}

			srv, err := web.NewServer(sess, Version, bind, port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv, sess.Logger); err != nil {
				return outputError(errors.NewIO("web server stopped", err))
			}
			return nil
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(sess *session.Session) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve MCP tools over stdio",
		Action: func(c *cli.Context) error {
			if err := runMCP(sess); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr := errors.As(err); sErr != nil {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// intFlag returns a pointer to the flag value, or nil when it was not given.
func intFlag(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Int(name)
	return &v
}

// linePrompter asks for each prize on out and reads one line per rank from
// in. End of input cancels every remaining prompt.
func linePrompter(in io.Reader, out io.Writer) draw.Prompter {
	scanner := bufio.NewScanner(in)
	done := false
	return draw.PrompterFunc(func(rank int) (string, bool) {
		if done {
			return "", false
		}
		fmt.Fprintf(out, "Prêmio para o %dº lugar: ", rank)
		if !scanner.Scan() {
			done = true
			fmt.Fprintln(out)
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	})
}
