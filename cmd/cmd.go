// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// uploadCommand submits files to the calendar endpoint with live progress.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Aliases:   []string{"up"},
		Usage:     "Upload photos to the calendar endpoint",
		ArgsUsage: "FILE [FILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Aliases: []string{"e"},
				Usage:   "Form action URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "field",
				Usage: "Form field name files are attached to",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Line-based progress output instead of the TUI overlay",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the resolved destination in the browser",
			},
		},
		Action: r.Upload,
	}
}

// historyCommand inspects and manages recorded upload sessions.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Upload session history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded upload sessions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of sessions to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "clear",
				Usage: "Delete all recorded sessions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.HistoryClear,
			},
		},
	}
}

// serveCommand runs the local upload receiver.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run a local receiver that accepts multipart uploads",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Response shape: json, redirect, or plain",
				Value: "json",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles database initialization and config scaffolding.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
