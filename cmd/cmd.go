// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run migrations and start the HTTP API",
		Action: r.Serve,
	}
}

// setupCommand handles first-run setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// migrateCommand manages schema versions.
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Database migration commands",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply pending migrations",
				Action: r.MigrateUp,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recently applied migration",
				Action: r.MigrateRollback,
			},
			{
				Name:   "status",
				Usage:  "List migrations and when they were applied",
				Action: r.MigrateStatus,
			},
		},
	}
}

func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account on the server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
			&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
			passwordFlag(),
		},
		Action: r.Register,
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
			passwordFlag(),
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "End the current session and forget the stored token",
		Action: r.Logout,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged-in user",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Whoami,
	}
}

// booksCommand handles the user's book list.
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"b"},
		Usage:   "Manage the books on your shelf",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List tracked books, newest first",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.BooksList,
			},
			{
				Name:  "add",
				Usage: "Add a catalog book",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "book-id", Usage: "Catalog book ID, e.g. /works/OL45883W", Required: true},
					&cli.StringFlag{Name: "title", Usage: "Book title", Required: true},
					&cli.StringFlag{Name: "author", Usage: "Author name"},
					&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
					statusFlag(),
				},
				Action: r.BooksAdd,
			},
			{
				Name:  "create",
				Usage: "Add a custom book that is not in the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Book title", Required: true},
					&cli.StringFlag{Name: "author", Usage: "Author name"},
					&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
					statusFlag(),
				},
				Action: r.BooksCreate,
			},
			{
				Name:  "update",
				Usage: "Change status, progress or details of a tracked book",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Record ID (see books list)", Required: true},
					&cli.StringFlag{Name: "status", Usage: "wishlist, reading or completed"},
					&cli.IntFlag{Name: "progress", Usage: "Reading progress, 0-100"},
					&cli.StringFlag{Name: "title", Usage: "Book title"},
					&cli.StringFlag{Name: "author", Usage: "Author name"},
					&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
				},
				Action: r.BooksUpdate,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a tracked book",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Record ID (see books list)", Required: true},
				},
				Action: r.BooksRemove,
			},
			{
				Name:  "export",
				Usage: "Export your shelf to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, txt, json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: shelf.<ext>)",
					},
				},
				Action: r.BooksExport,
			},
			{
				Name:  "import",
				Usage: "Add books from a CSV or JSON export",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Path to a .csv or .json export", Required: true},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent requests", Value: 4},
					&cli.FloatFlag{Name: "rate", Usage: "Requests per second", Value: 5},
				},
				Action: r.BooksImport,
			},
		},
	}
}

// activityCommand handles the activity feed.
func activityCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "View and manage your recent activity",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Show the ten most recent entries",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ActivityList,
			},
			{
				Name:      "add",
				Usage:     "Record a custom activity entry",
				Arguments: []cli.Argument{&cli.StringArg{Name: "message"}},
				Action:    r.ActivityAdd,
			},
			{
				Name:   "clear",
				Usage:  "Delete all of your activity entries",
				Action: r.ActivityClear,
			},
		},
	}
}

// searchCommand queries the catalog directly; no server or session is needed.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the Open Library catalog",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of results (default: catalog.search_limit)"},
			jsonFlag(),
		},
		Action: r.Search,
	}
}

func trendingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "trending",
		Usage: "Show a sample of popular catalog books",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of results", Value: 6},
			jsonFlag(),
		},
		Action: r.Trending,
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func statusFlag() cli.Flag {
	return &cli.StringFlag{Name: "status", Usage: "wishlist, reading or completed", Value: "wishlist"}
}

func passwordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "password",
		Usage:   "Account password",
		Sources: cli.EnvVars("SHELF_PASSWORD"),
	}
}
