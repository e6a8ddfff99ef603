package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jrmoreno/catalogbridge/internal/shared"
)

// WorkerRun runs the match stage for one QUEUED job: enumerates the source
// playlist, searches the target, scores candidates, and leaves the job in
// WAITING_REVIEW.
func (r *Runner) WorkerRun(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	id := cmd.StringArg("id")

	j, err := r.jobs.Get(ctx, id)
	if err != nil || j.OwnerID != owner {
		return fmt.Errorf("%w: job not found", shared.ErrInvalidInput)
	}

	orch, err := r.orchestratorFor(ctx, owner, j.TargetProvider)
	if err != nil {
		return err
	}

	r.logger.Info("running match", "job_id", id, "target", j.TargetProvider)
	if err := orch.RunMatch(ctx, id); err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	return r.writePlain("job %s matched, now WAITING_REVIEW\n", id)
}
