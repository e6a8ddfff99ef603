package main

import "github.com/urfave/cli/v3"

// configFlag is the shared --config/-c flag every subcommand accepts.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write a default config.toml",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ConfigInit,
			},
		},
	}
}

func jobCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "job",
		Usage: "Create and inspect migration jobs",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Queue a new migration job",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true, Usage: "Owner user id"},
					&cli.StringFlag{Name: "source", Required: true, Usage: "Source Spotify playlist id or URL"},
					&cli.StringFlag{Name: "target", Required: true, Usage: "Target provider (ytm, tidal, qobuz)"},
				},
				Action: r.JobCreate,
			},
			{
				Name:  "list",
				Usage: "List jobs for an owner",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
					&cli.StringFlag{Name: "status", Usage: "Filter by status (QUEUED, RUNNING, WAITING_REVIEW, IMPORTING, DONE, FAILED)"},
				},
				Action: r.JobList,
			},
			{
				Name:  "show",
				Usage: "Show a job's status and match summary",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
				},
				Action: r.JobShow,
			},
			{
				Name:  "finalize",
				Usage: "Request finalize for a job in WAITING_REVIEW, then run the write",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
				},
				Action: r.JobFinalize,
			},
		},
	}
}

func workerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "Run matching for queued jobs",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the match stage for one job",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
				},
				Action: r.WorkerRun,
			},
		},
	}
}

func reviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Inspect and decide on ambiguous matches",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List items awaiting a decision",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
				},
				Action: r.ReviewList,
			},
			{
				Name:  "decide",
				Usage: "Confirm or reject one item",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "job-id"},
					&cli.StringArg{Name: "item-id"},
					&cli.StringArg{Name: "action"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
					&cli.StringFlag{Name: "target-id", Usage: "Override target id (confirm only)"},
				},
				Action: r.ReviewDecide,
			},
			{
				Name:  "ui",
				Usage: "Interactive review TUI for a job",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
				},
				Action: r.ReviewUI,
			},
		},
	}
}
