package sqlite

import (
	"context"
	"testing"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
)

func TestItemRepositoryCreateAllAndListByJob(t *testing.T) {
	db := newTestDB(t)
	ownerID := createOwner(t, db)
	j := &job.Import{OwnerID: ownerID, SourcePlaylistRef: "ref", TargetProvider: job.Tidal, Status: job.Queued}
	if err := NewJobRepository(db).Create(context.Background(), j); err != nil {
		t.Fatalf("failed to seed job: %v", err)
	}

	items := NewItemRepository(db)
	matched := &job.Item{
		JobID: j.ID,
		Source: track.SourceTrack{
			Name:       "Teardrop",
			Artists:    []string{"Massive Attack"},
			DurationMS: 330000,
		},
		Best: &track.Candidate{
			TargetID:     "tidal-1",
			Title:        "Teardrop",
			Artists:      []string{"Massive Attack"},
			DurationSecs: 329,
			Score:        0.97,
		},
		Classification: track.Matched,
	}
	unresolved := &job.Item{
		JobID: j.ID,
		Source: track.SourceTrack{
			Name:       "Obscure B-Side",
			Artists:    []string{"Nobody Famous"},
			DurationMS: 180000,
		},
		Classification: track.NotFound,
	}

	if err := items.CreateAll(context.Background(), []*job.Item{matched, unresolved}); err != nil {
		t.Fatalf("CreateAll: %v", err)
	}
	if matched.ID == "" || unresolved.ID == "" {
		t.Fatal("expected generated ids")
	}

	all, err := items.ListByJob(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 items, got %d", len(all))
	}

	var gotMatched *job.Item
	for _, it := range all {
		if it.ID == matched.ID {
			gotMatched = it
		}
	}
	if gotMatched == nil {
		t.Fatal("matched item not found in listing")
	}
	if gotMatched.Best == nil || gotMatched.Best.TargetID != "tidal-1" {
		t.Fatalf("best candidate not round-tripped: %+v", gotMatched.Best)
	}
	if len(gotMatched.Source.Artists) != 1 || gotMatched.Source.Artists[0] != "Massive Attack" {
		t.Fatalf("source artists not round-tripped: %v", gotMatched.Source.Artists)
	}
}

func TestItemRepositoryListUncertainOrNotFoundExcludesMatched(t *testing.T) {
	db := newTestDB(t)
	ownerID := createOwner(t, db)
	j := &job.Import{OwnerID: ownerID, SourcePlaylistRef: "ref", TargetProvider: job.Qobuz, Status: job.Queued}
	if err := NewJobRepository(db).Create(context.Background(), j); err != nil {
		t.Fatalf("failed to seed job: %v", err)
	}

	items := NewItemRepository(db)
	toCreate := []*job.Item{
		{JobID: j.ID, Source: track.SourceTrack{Name: "A"}, Classification: track.Matched},
		{JobID: j.ID, Source: track.SourceTrack{Name: "B"}, Classification: track.Uncertain},
		{JobID: j.ID, Source: track.SourceTrack{Name: "C"}, Classification: track.NotFound},
	}
	if err := items.CreateAll(context.Background(), toCreate); err != nil {
		t.Fatalf("CreateAll: %v", err)
	}

	needsReview, err := items.ListUncertainOrNotFound(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("ListUncertainOrNotFound: %v", err)
	}
	if len(needsReview) != 2 {
		t.Fatalf("expected 2 items needing review, got %d", len(needsReview))
	}
	for _, it := range needsReview {
		if it.Classification == track.Matched {
			t.Errorf("matched item leaked into review list: %s", it.ID)
		}
	}
}

func TestItemRepositoryUpdateDecisionPersistsOverride(t *testing.T) {
	db := newTestDB(t)
	ownerID := createOwner(t, db)
	j := &job.Import{OwnerID: ownerID, SourcePlaylistRef: "ref", TargetProvider: job.YouTube, Status: job.Queued}
	if err := NewJobRepository(db).Create(context.Background(), j); err != nil {
		t.Fatalf("failed to seed job: %v", err)
	}

	items := NewItemRepository(db)
	item := &job.Item{JobID: j.ID, Source: track.SourceTrack{Name: "Ambiguous Live Cut"}, Classification: track.Uncertain}
	if err := items.CreateAll(context.Background(), []*job.Item{item}); err != nil {
		t.Fatalf("CreateAll: %v", err)
	}

	item.Confirm(&track.Candidate{TargetID: "ytm-42", Title: "Ambiguous Live Cut"})
	if err := items.UpdateDecision(context.Background(), item); err != nil {
		t.Fatalf("UpdateDecision: %v", err)
	}

	all, err := items.ListByJob(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 item, got %d", len(all))
	}
	if all[0].Classification != track.Matched {
		t.Errorf("classification = %s, want MATCHED", all[0].Classification)
	}
	if all[0].SelectedTargetID != "ytm-42" {
		t.Errorf("selected target = %s, want ytm-42", all[0].SelectedTargetID)
	}
}
