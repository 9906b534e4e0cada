// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, csv, markdown",
		Value:   "text",
	}
}

func passwordFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "password",
		Aliases:  []string{"p"},
		Usage:    "Account password",
		Required: true,
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the config file if missing, initialize the database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// matchesCommand handles fixture operations
func matchesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "matches",
		Aliases: []string{"fixtures"},
		Usage:   "Upcoming NBA fixtures",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List upcoming matches",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Read the last synced fixtures instead of the API",
					},
					formatFlag(),
				},
				Action: r.MatchesList,
			},
			{
				Name:  "show",
				Usage: "Show details for a single match",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the match page in a browser",
					},
				},
				Action: r.MatchesShow,
			},
		},
	}
}

// standingsCommand shows the ranked league table
func standingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "standings",
		Aliases: []string{"table"},
		Usage:   "Show the league standings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "season",
				Aliases: []string{"s"},
				Usage:   "Season to rank, e.g. 2024-2025 (defaults to the configured season)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
			formatFlag(),
		},
		Action: r.Standings,
	}
}

// favoritesCommand manages favorite matches
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite matches",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorite matches from the last synced fixtures",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					formatFlag(),
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "toggle",
				Usage: "Add or remove a match from favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesToggle,
			},
			{
				Name:  "check",
				Usage: "Report whether a match is a favorite",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesCheck,
			},
			{
				Name:   "clear",
				Usage:  "Remove every favorite",
				Action: r.FavoritesClear,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the signed-in session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with a username and password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags:  []cli.Flag{passwordFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a local account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags:  []cli.Flag{passwordFlag()},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the signed-in user",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthWhoami,
			},
		},
	}
}

// themeCommand reads and changes the colour scheme
func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "Show or change the colour scheme",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the active scheme",
				Action: r.ThemeShow,
			},
			{
				Name:  "set",
				Usage: "Switch to light or dark",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.ThemeSet,
			},
			{
				Name:   "toggle",
				Usage:  "Flip between light and dark",
				Action: r.ThemeToggle,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to TheSportsDB",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to TheSportsDB, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// syncCommand refreshes fixtures and standings
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Fetch fixtures and standings and cache the fixtures for offline use",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "season",
				Aliases: []string{"s"},
				Usage:   "Season to rank (defaults to the configured season)",
			},
		},
		Action: r.Sync,
	}
}

// exportCommand writes fixtures, standings and badges to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export fixtures and standings to files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "season",
				Aliases: []string{"s"},
				Usage:   "Season to rank (defaults to the configured season)",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: courtside_export_{epoch})",
			},
			&cli.BoolFlag{
				Name:  "badges",
				Usage: "Download team badges",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent badge downloads",
				Value: 4,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, markdown, json",
				Value:   "csv",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where the TUI writes its logs",
				Value: "./tmp/courtside-tui.log",
			},
		},
		Action: r.TUI,
	}
}
