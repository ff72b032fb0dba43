// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
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

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage account and session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Username (alphanumeric, at least 3 characters)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Password (at least 6 characters)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Email address",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "birthday",
						Usage: "Birthday (YYYY-MM-DD)",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in and persist the session",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
					&cli.StringArg{Name: "password"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored session",
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

// moviesCommand handles catalog browsing
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all movies",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Render as a Markdown table",
					},
					&cli.StringFlag{
						Name:  "save",
						Usage: "Write the catalog to {save}_movies.csv",
					},
					&cli.BoolFlag{
						Name:  "favorites",
						Usage: "Only show favorite movies",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:  "show",
				Usage: "Show one movie by title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "title"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the poster image in a browser",
					},
				},
				Action: r.MoviesShow,
			},
			{
				Name:  "director",
				Usage: "Show a director's details",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesDirector,
			},
			{
				Name:  "genre",
				Usage: "Show a genre's description",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesGenre,
			},
		},
	}
}

// profileCommand handles the signed-in user's account record
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "View and edit the signed-in user's profile",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the current profile",
				Flags: []cli.Flag{
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
				Action: r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update profile fields (only the flags you pass change)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON body with the fields to change",
					},
					&cli.StringFlag{
						Name:  "username",
						Usage: "New username",
					},
					&cli.StringFlag{
						Name:  "password",
						Usage: "New password",
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "New email address",
					},
					&cli.StringFlag{
						Name:  "birthday",
						Usage: "New birthday (YYYY-MM-DD)",
					},
				},
				Action: r.ProfileUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete the account permanently",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.ProfileDelete,
			},
		},
	}
}

// favoritesCommand handles the favorite-movie set
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite movies",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorite movies in catalog order",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Add a movie to favorites (by title or id)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie"},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a movie from favorites (by title or id)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie"},
				},
				Action: r.FavoritesRemove,
			},
			{
				Name:  "toggle",
				Usage: "Flip a movie's favorite state (by title or id)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "movie"},
				},
				Action: r.FavoritesToggle,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing the catalog",
		Action:  r.TUI,
	}
}
