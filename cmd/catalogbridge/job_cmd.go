package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

// JobCreate queues a new migration job for an owner, spotify source, and
// target provider. The job starts QUEUED; `worker run` performs the match.
func (r *Runner) JobCreate(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	source := cmd.String("source")
	target := job.Provider(cmd.String("target"))

	j := &job.Import{
		OwnerID:           owner,
		SourcePlaylistRef: source,
		TargetProvider:    target,
		Status:            job.Queued,
	}
	if err := r.jobs.Create(ctx, j); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	r.logger.Info("job queued", "job_id", j.ID, "owner", owner, "target", target)
	return r.writePlain("queued job %s (target: %s)\n", j.ID, target)
}

// JobList prints the owner's jobs, optionally filtered by status.
func (r *Runner) JobList(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	status := job.Status(cmd.String("status"))

	jobs, err := r.jobs.List(ctx, owner, status)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}

	if len(jobs) == 0 {
		return r.writePlain("no jobs found\n")
	}
	for _, j := range jobs {
		r.writePlain("%s  %-14s  %s -> %s\n", j.ID, j.Status, j.SourcePlaylistRef, j.TargetProvider)
	}
	return nil
}

// JobShow prints a job's status plus its match summary.
func (r *Runner) JobShow(ctx context.Context, cmd *cli.Command) error {
	owner := cmd.String("owner")
	id := cmd.StringArg("id")

	j, err := r.jobs.Get(ctx, id)
	if err != nil || j.OwnerID != owner {
		return fmt.Errorf("%w: job not found", shared.ErrInvalidInput)
	}

	r.writePlain("job %s\n", j.ID)
	r.writePlain("  status:   %s\n", j.Status)
	r.writePlain("  source:   %s (%s)\n", j.SourcePlaylistRef, j.SourcePlaylistName)
	r.writePlain("  target:   %s\n", j.TargetProvider)
	if j.TargetPlaylistID != "" {
		r.writePlain("  playlist: %s\n", j.TargetPlaylistID)
	}
	if j.ErrorMessage != "" {
		r.writePlain("  error:    %s\n", j.ErrorMessage)
	}

	summary, err := r.review.Summary(ctx, owner, id)
	if err != nil {
		return nil // job may predate item creation; status above is still useful
	}
	r.writePlain("\nmatch summary (%d items):\n", summary.Total)
	r.writePlain("  matched:   %d\n", summary.Matched)
	r.writePlain("  uncertain: %d\n", summary.Uncertain)
	r.writePlain("  not found: %d\n", summary.NotFound)
	r.writePlain("  skipped:   %d\n", summary.Skipped)
	for _, bucket := range []string{"0-49%", "50-74%", "75-89%", "90-100%"} {
		r.writePlain("  score %-7s %d\n", bucket, summary.ScoreBuckets[bucket])
	}
	return nil
}

// JobFinalize requests the WAITING_REVIEW -> IMPORTING transition and then
// runs the write immediately, printing the resulting report.
func (r *Runner) JobFinalize(ctx context.Context, cmd *cli.Command) error {
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
	if err := orch.RequestFinalize(ctx, id); err != nil {
		return fmt.Errorf("failed to request finalize: %w", err)
	}

	report, err := orch.RunFinalize(ctx, id)
	if err != nil {
		return fmt.Errorf("finalize failed: %w", err)
	}

	r.writePlain("playlist: %s\n", report.TargetPlaylistID)
	r.writePlain("inserted: %d\n", report.InsertedCount)
	r.writePlain("missed:   %d\n", report.Missed.Count)
	r.writePlain("skipped duplicates: %d\n", report.Duplicates.Count)
	return nil
}
