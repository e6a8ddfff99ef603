// Package orchestrator runs the match and finalize pipeline stages and
// drives the job status state machine. It is the only caller that invokes
// both the searcher and the writer; everything else in the pipeline is
// invoked per-stage, never directly by a reviewer or the CLI.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/jrmoreno/catalogbridge/internal/catalog"
	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/match/matcher"
	"github.com/jrmoreno/catalogbridge/internal/ratelimit"
	"github.com/jrmoreno/catalogbridge/internal/search"
	"github.com/jrmoreno/catalogbridge/internal/shared"
	"github.com/jrmoreno/catalogbridge/internal/store"
	"github.com/jrmoreno/catalogbridge/internal/writer"
)

// Sources maps the single canonical source provider to its adapter.
// Spotify is the only implementation; the registry exists so the
// orchestrator never special-cases a provider name inline.
type Sources map[job.Provider]catalog.Source

// Targets maps each destination provider to its adapter.
type Targets map[job.Provider]catalog.Target

// Orchestrator runs the match and finalize stages for import jobs.
type Orchestrator struct {
	Jobs    store.Jobs
	Items   store.Items
	Sources Sources
	Targets Targets
	Logger  *log.Logger

	SearchWorkers int
	QPS           float64
	WriterOptions writer.Options
}

// New constructs an Orchestrator with the given collaborators.
func New(jobs store.Jobs, items store.Items, sources Sources, targets Targets, logger *log.Logger, searchWorkers int, qps float64, opts writer.Options) *Orchestrator {
	return &Orchestrator{
		Jobs:          jobs,
		Items:         items,
		Sources:       sources,
		Targets:       targets,
		Logger:        logger,
		SearchWorkers: searchWorkers,
		QPS:           qps,
		WriterOptions: opts,
	}
}

// RunMatch executes the match stage for jobID: enumerate the source
// playlist, fan the tracks out to the target catalog's searcher, score
// and classify each result, and persist one ImportItem per source track.
// It refuses to run for any job not currently QUEUED.
func (o *Orchestrator) RunMatch(ctx context.Context, jobID string) error {
	j, err := o.Jobs.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if j.Status != job.Queued {
		return fmt.Errorf("%w: job %s is %s, refusing match", shared.ErrInternalInvariant, jobID, j.Status)
	}

	logger := shared.WithLogger(o.Logger, "component", "orchestrator", "job_id", jobID, "stage", "match")

	source, ok := o.Sources[job.Spotify]
	if !ok {
		return o.fail(ctx, jobID, job.Queued, fmt.Errorf("no source adapter registered for spotify"))
	}
	target, ok := o.Targets[j.TargetProvider]
	if !ok {
		return o.fail(ctx, jobID, job.Queued, fmt.Errorf("no target adapter registered for %s", j.TargetProvider))
	}

	if err := o.Jobs.UpdateStatus(ctx, jobID, job.Queued, job.Running, nil); err != nil {
		return err
	}

	tracks, displayName, err := source.EnumeratePlaylist(ctx, j.SourcePlaylistRef)
	if err != nil {
		logger.Error("enumerate playlist failed", "err", err)
		return o.fail(ctx, jobID, job.Running, err)
	}

	limiter := ratelimit.New(o.QPS)
	resolved, stats, err := search.Resolve(ctx, target, limiter, logger, tracks, o.SearchWorkers)
	if err != nil {
		logger.Error("search exhausted", "err", err)
		return o.fail(ctx, jobID, job.Running, fmt.Errorf("%w: %v", shared.ErrSearchEmpty, err))
	}
	logger.Info("search complete", "found", stats.Found, "missed", len(stats.Missed))

	items := make([]*job.Item, len(tracks))
	for i, t := range tracks {
		var candidates []track.Candidate
		if resolved[i] != nil {
			candidates = []track.Candidate{*resolved[i]}
		}
		best, classification := matcher.Match(t, candidates)
		items[i] = &job.Item{
			JobID:          jobID,
			Source:         t,
			Best:           best,
			Classification: classification,
		}
	}

	if err := o.Items.CreateAll(ctx, items); err != nil {
		logger.Error("persisting items failed", "err", err)
		return o.fail(ctx, jobID, job.Running, err)
	}

	return o.Jobs.UpdateStatus(ctx, jobID, job.Running, job.WaitingReview, func(current *job.Import) {
		if current.SourcePlaylistName == "" {
			current.SourcePlaylistName = displayName
		}
	})
}

// RequestFinalize advances a job from WAITING_REVIEW to IMPORTING in
// response to an operator's finalize request. The actual write happens in
// RunFinalize; splitting the transition from the work lets the queue
// dispatch the write stage independently.
func (o *Orchestrator) RequestFinalize(ctx context.Context, jobID string) error {
	return o.Jobs.UpdateStatus(ctx, jobID, job.WaitingReview, job.Importing, nil)
}

// Report is the outcome of a finalize run, matching the external contract:
// target playlist id, counts, and the specific tracks that were missed or
// deduplicated away before the write.
type Report struct {
	TargetPlaylistID string
	InsertedCount    int
	Missed           MissedReport
	Duplicates       DuplicatesReport
}

// MissedReport describes items whose writer insert permanently failed.
type MissedReport struct {
	Count  int
	Tracks []string
}

// DuplicatesReport describes items dropped before the write because they
// shared a target-id with an earlier item in the same run.
type DuplicatesReport struct {
	Count int
	Items []string
}

// RunFinalize writes every MATCHED item's selected target into the job's
// target playlist, creating the playlist first if the job has none. It
// refuses to run for any job not currently IMPORTING.
func (o *Orchestrator) RunFinalize(ctx context.Context, jobID string) (Report, error) {
	j, err := o.Jobs.Get(ctx, jobID)
	if err != nil {
		return Report{}, err
	}
	if j.Status != job.Importing {
		return Report{}, fmt.Errorf("%w: job %s is %s, refusing finalize", shared.ErrInternalInvariant, jobID, j.Status)
	}

	logger := shared.WithLogger(o.Logger, "component", "orchestrator", "job_id", jobID, "stage", "finalize")

	target, ok := o.Targets[j.TargetProvider]
	if !ok {
		err := fmt.Errorf("no target adapter registered for %s", j.TargetProvider)
		o.failImporting(ctx, jobID, err)
		return Report{}, err
	}

	matched, err := o.Items.ListMatched(ctx, jobID)
	if err != nil {
		o.failImporting(ctx, jobID, err)
		return Report{}, err
	}

	playlistID := j.TargetPlaylistID
	limiter := ratelimit.New(o.QPS)
	if playlistID == "" {
		name := j.SourcePlaylistName
		if name == "" {
			name = j.SourcePlaylistRef
		}
		if err := limiter.Acquire(ctx); err != nil {
			o.failImporting(ctx, jobID, err)
			return Report{}, err
		}
		playlistID, err = target.CreatePlaylist(ctx, name, "migrated by catalogbridge", catalog.Private)
		if err != nil {
			logger.Error("create playlist failed", "err", err)
			o.failImporting(ctx, jobID, err)
			return Report{}, err
		}
		o.WriterOptions.PostCreateDelay(ctx)
	}

	ids := make([]string, len(matched))
	labels := make([]string, len(matched))
	for i, item := range matched {
		ids[i] = item.SelectedTargetID
		labels[i] = item.Source.Label()
	}
	unique, duplicateLabels := writer.Dedup(ids, labels)

	result, err := writer.Write(ctx, target, limiter, logger, playlistID, unique, o.WriterOptions)
	if err != nil {
		logger.Error("write failed", "err", err)
		o.failImporting(ctx, jobID, err)
		return Report{}, err
	}

	report := Report{
		TargetPlaylistID: playlistID,
		InsertedCount:    result.InsertedCount,
		Missed:           MissedReport{Count: len(result.FailedIDs), Tracks: result.FailedIDs},
		Duplicates:       DuplicatesReport{Count: len(duplicateLabels), Items: duplicateLabels},
	}

	if err := o.Jobs.UpdateStatus(ctx, jobID, job.Importing, job.Done, func(current *job.Import) {
		current.TargetPlaylistID = playlistID
	}); err != nil {
		return report, err
	}

	return report, nil
}

// fail transitions a job to FAILED from the given expected current state
// and returns the original error unwrapped so callers can still inspect it.
func (o *Orchestrator) fail(ctx context.Context, jobID string, from job.Status, cause error) error {
	if updateErr := o.Jobs.UpdateStatus(ctx, jobID, from, job.Failed, func(current *job.Import) {
		current.ErrorMessage = cause.Error()
	}); updateErr != nil {
		o.Logger.Error("failed to persist job failure", "job_id", jobID, "cause", cause, "persist_err", updateErr)
	}
	return cause
}

func (o *Orchestrator) failImporting(ctx context.Context, jobID string, cause error) {
	if updateErr := o.Jobs.UpdateStatus(ctx, jobID, job.Importing, job.Failed, func(current *job.Import) {
		current.ErrorMessage = cause.Error()
	}); updateErr != nil {
		o.Logger.Error("failed to persist job failure", "job_id", jobID, "cause", cause, "persist_err", updateErr)
	}
}
