package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/jrmoreno/catalogbridge/internal/review"
	"github.com/jrmoreno/catalogbridge/internal/reviewtui"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

// ReviewList prints the items in jobID currently UNCERTAIN or NOT_FOUND.
func (r *Runner) ReviewList(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	id := cmd.StringArg("id")

	items, err := r.review.ListUncertain(ctx, owner, id)
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}
	if len(items) == 0 {
		return r.writePlain("no items awaiting review\n")
	}
	for _, it := range items {
		if it.Best == nil {
			r.writePlain("%s  [%s]  %s  (no candidate)\n", it.ID, it.Classification, it.Source.Label())
			continue
		}
		r.writePlain("%s  [%s]  %s  -> %s (score %.2f)\n", it.ID, it.Classification, it.Source.Label(), it.Best.Title, it.Best.Score)
	}
	return nil
}

// ReviewDecide applies a single confirm/reject decision to one item.
func (r *Runner) ReviewDecide(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	jobID := cmd.StringArg("job-id")
	itemID := cmd.StringArg("item-id")
	action := review.Action(cmd.StringArg("action"))
	targetID := cmd.String("target-id")

	if action != review.Confirm && action != review.Reject {
		return fmt.Errorf("%w: action must be confirm or reject", shared.ErrBadRequest)
	}

	err := r.review.ApplyDecisions(ctx, owner, jobID, []review.Decision{
		{ItemID: itemID, Action: action, TargetID: targetID},
	})
	if err != nil {
		return fmt.Errorf("failed to apply decision: %w", err)
	}

	return r.writePlain("applied %s to item %s\n", action, itemID)
}

// ReviewUI launches the interactive confirm/reject terminal UI for a job.
func (r *Runner) ReviewUI(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	id := cmd.StringArg("id")

	fileLogger, err := shared.NewFileLogger("./tmp/catalogbridge-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.logger = fileLogger

	model := reviewtui.NewModel(ctx, r.review, owner, id)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("error running review UI: %w", err)
	}
	return nil
}
