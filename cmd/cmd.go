// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, md, csv or json",
		Value:   "text",
	}
}

func prettyFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "pretty",
		Usage: "Pretty-print JSON output",
		Value: true,
	}
}

// albumsCommand handles album listing, search and export
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"album"},
		Usage:   "List, search and export albums",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every album",
				Flags:  []cli.Flag{formatFlag(), prettyFlag()},
				Action: r.AlbumsList,
			},
			{
				Name:  "search",
				Usage: "Search albums by title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  []cli.Flag{formatFlag(), prettyFlag()},
				Action: r.AlbumsSearch,
			},
			{
				Name:  "export",
				Usage: "Write every album and its songs to a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: crates_export_{epoch})",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "File format: text, md, csv or json",
						Value:   "json",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent file writers",
						Value: 4,
					},
					&cli.StringFlag{
						Name:  "query",
						Usage: "Only export albums matching this search",
					},
				},
				Action: r.AlbumsExport,
			},
		},
	}
}

// songsCommand handles song listing and mutations
func songsCommand(r *Runner) *cli.Command {
	albumFlag := func(required bool) *cli.StringFlag {
		return &cli.StringFlag{
			Name:     "album",
			Aliases:  []string{"a"},
			Usage:    "Album ID",
			Required: required,
		}
	}
	idFlag := func() *cli.StringFlag {
		return &cli.StringFlag{Name: "id", Usage: "Song ID", Required: true}
	}
	titleFlag := func() *cli.StringFlag {
		return &cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Song title"}
	}

	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"song"},
		Usage:   "Manage the songs of an album",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the songs of an album",
				Flags:  []cli.Flag{albumFlag(true), formatFlag(), prettyFlag()},
				Action: r.SongsList,
			},
			{
				Name:   "add",
				Usage:  "Add a song to an album, then print the refreshed songs",
				Flags:  []cli.Flag{albumFlag(true), titleFlag(), formatFlag(), prettyFlag()},
				Action: r.SongsAdd,
			},
			{
				Name:   "update",
				Usage:  "Rename a song",
				Flags:  []cli.Flag{idFlag(), titleFlag(), albumFlag(false), formatFlag(), prettyFlag()},
				Action: r.SongsUpdate,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a song",
				Flags:   []cli.Flag{idFlag(), albumFlag(false), formatFlag(), prettyFlag()},
				Action:  r.SongsDelete,
			},
		},
	}
}

// apiCommand handles direct backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the album/song backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// historyCommand shows and prunes the request journal
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recorded backend requests",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "failed",
				Usage: "Only show failed requests",
			},
			&cli.StringFlag{
				Name:  "method",
				Usage: "Only show requests with this HTTP method",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of requests to show",
				Value:   25,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON instead of a table",
			},
		},
		Action: r.History,
		Commands: []*cli.Command{
			{
				Name:  "prune",
				Usage: "Delete recorded requests older than --days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Age in days of the newest request to delete",
						Value: 30,
					},
				},
				Action: r.HistoryPrune,
			},
		},
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file populated with the defaults",
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the request journal and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recently applied migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive album and song manager",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show-errors",
				Usage: "Show the last failed request on the status line",
			},
		},
		Action: r.TUI,
	}
}
