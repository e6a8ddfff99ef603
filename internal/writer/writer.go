// Package writer adds resolved target-ids to a target playlist with
// best-effort completeness: de-duplication against existing items and a
// binary-split retry on partial failures.
package writer

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jrmoreno/catalogbridge/internal/catalog"
	"github.com/jrmoreno/catalogbridge/internal/ratelimit"
)

// Defaults for the writer's batching/backoff knobs.
const (
	DefaultBatchSize       = 60
	DefaultSleepSecs       = 0.3
	DefaultPostCreateSleep = 1.0
)

// Options controls the writer's chunking and pacing.
type Options struct {
	BatchSize       int
	SleepSecs       float64
	PostCreateSleep float64
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.SleepSecs <= 0 {
		o.SleepSecs = DefaultSleepSecs
	}
	if o.PostCreateSleep <= 0 {
		o.PostCreateSleep = DefaultPostCreateSleep
	}
	return o
}

// Report is the outcome of a Write run.
type Report struct {
	InsertedCount int
	FailedIDs     []string
}

// PostCreateDelay pauses for PostCreateSleep seconds; callers invoke it
// once after creating a new target playlist and before the first insert.
func (o Options) PostCreateDelay(ctx context.Context) {
	sleep(ctx, o.withDefaults().PostCreateSleep)
}

// Write inserts ids into target playlist playlistID, deduplicating against
// its current contents and recovering from partial failures by halving a
// failing batch down to single items.
//
// Guarantees: no id is inserted twice in a single run; every non-empty
// input id ends up either in the existing set (fetched up front, or
// inserted by this run) or in Report.FailedIDs; InsertedCount = |unique
// input| - |FailedIDs| - |already present|.
func Write(ctx context.Context, target catalog.Target, limiter *ratelimit.Limiter, logger *log.Logger, playlistID string, ids []string, opts Options) (Report, error) {
	opts = opts.withDefaults()

	existing := map[string]struct{}{}
	if err := limiter.Acquire(ctx); err != nil {
		logger.Warn("rate limiter acquire canceled, treating existing items as empty", "playlist_id", playlistID, "err", err)
	} else if fetched, err := target.ExistingItems(ctx, playlistID); err != nil {
		logger.Warn("could not fetch existing items, treating as empty", "playlist_id", playlistID, "err", err)
	} else {
		existing = fetched
	}

	w := &run{
		ctx:      ctx,
		target:   target,
		limiter:  limiter,
		logger:   logger,
		pid:      playlistID,
		existing: existing,
		opts:     opts,
	}

	startCount := len(existing)

	for start := 0; start < len(ids); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(ids) {
			end = len(ids)
		}
		w.addChunk(ids[start:end])
		sleep(ctx, opts.SleepSecs)
	}

	return Report{
		InsertedCount: len(w.existing) - startCount,
		FailedIDs:     w.failed,
	}, nil
}

type run struct {
	ctx      context.Context
	target   catalog.Target
	limiter  *ratelimit.Limiter
	logger   *log.Logger
	pid      string
	existing map[string]struct{}
	failed   []string
	opts     Options
}

func (w *run) addChunk(chunk []string) {
	filtered := make([]string, 0, len(chunk))
	for _, id := range chunk {
		if id == "" {
			continue
		}
		if _, ok := w.existing[id]; ok {
			continue
		}
		filtered = append(filtered, id)
	}
	if len(filtered) == 0 {
		return
	}

	if err := w.limiter.Acquire(w.ctx); err != nil {
		w.logger.Warn("rate limiter acquire canceled mid-write", "count", len(filtered), "err", err)
		w.splitOrFail(filtered)
		return
	}

	result, err := w.target.AddItems(w.ctx, w.pid, filtered)
	switch {
	case err == nil && result.Status == catalog.OK:
		for _, id := range filtered {
			w.existing[id] = struct{}{}
		}
		w.logger.Info("inserted items", "count", len(filtered), "playlist_id", w.pid)
		return
	case err != nil:
		w.logger.Warn("add_items failed", "count", len(filtered), "err", err)
	default:
		w.logger.Error("add_items returned non-success", "count", len(filtered), "detail", result.Detail)
	}

	w.splitOrFail(filtered)
}

func (w *run) splitOrFail(filtered []string) {
	if len(filtered) == 1 {
		w.failed = append(w.failed, filtered[0])
		return
	}
	mid := len(filtered) / 2
	w.addChunk(filtered[:mid])
	sleep(w.ctx, w.opts.SleepSecs)
	w.addChunk(filtered[mid:])
	sleep(w.ctx, w.opts.SleepSecs)
}

func sleep(ctx context.Context, seconds float64) {
	d := time.Duration(seconds * float64(time.Second))
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Dedup removes repeated target-ids from ids, preserving first-occurrence
// order, and reports the corresponding labels of the dropped duplicates
// (labels[i] must align with ids[i]). Callers deduplicate before calling
// Write so the writer itself never has to reason about repeats within a
// single input.
func Dedup(ids []string, labels []string) (unique []string, duplicateLabels []string) {
	seen := make(map[string]struct{}, len(ids))
	unique = make([]string, 0, len(ids))
	for i, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			if i < len(labels) {
				duplicateLabels = append(duplicateLabels, labels[i])
			}
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, duplicateLabels
}
