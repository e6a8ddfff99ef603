package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/domain/track"
	"github.com/jrmoreno/catalogbridge/internal/shared"
)

// ItemRepository implements store.Items against SQLite.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates an ItemRepository with the given database connection.
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// CreateAll inserts items in a single transaction. Items are created once,
// during the match stage, and never individually re-inserted afterward.
func (r *ItemRepository) CreateAll(ctx context.Context, items []*job.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, "UPDATE import_items_sequence SET value = value + 1 WHERE id = 1"); err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}
		var sequence int
		if err := tx.QueryRowContext(ctx, "SELECT value FROM import_items_sequence WHERE id = 1").Scan(&sequence); err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}
		if item.ID == "" {
			item.ID = shared.GenerateID()
		}

		sourceArtists, err := json.Marshal(item.Source.Artists)
		if err != nil {
			return fmt.Errorf("failed to encode source artists: %w", err)
		}

		var bestTargetID, bestTitle, bestArtists, bestAlbum, bestISRC any
		var bestDurationSecs, bestScore any
		if item.Best != nil {
			artists, err := json.Marshal(item.Best.Artists)
			if err != nil {
				return fmt.Errorf("failed to encode best artists: %w", err)
			}
			bestTargetID = item.Best.TargetID
			bestTitle = item.Best.Title
			bestArtists = string(artists)
			bestAlbum = nullIfEmpty(item.Best.Album)
			bestISRC = nullIfEmpty(item.Best.ISRC)
			bestDurationSecs = item.Best.DurationSecs
			bestScore = item.Best.Score
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO import_items (
				id, sequence, job_id, source_name, source_artists, source_album,
				source_duration_ms, source_isrc, source_id,
				best_target_id, best_title, best_artists, best_album,
				best_duration_secs, best_isrc, best_score,
				classification, selected_target_id, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			item.ID, sequence, item.JobID, item.Source.Name, string(sourceArtists), nullIfEmpty(item.Source.Album),
			item.Source.DurationMS, nullIfEmpty(item.Source.ISRC), nullIfEmpty(item.Source.SourceID),
			bestTargetID, bestTitle, bestArtists, bestAlbum,
			bestDurationSecs, bestISRC, bestScore,
			string(item.Classification), nullIfEmpty(item.SelectedTargetID), now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert import item: %w", err)
		}
	}

	return tx.Commit()
}

// ListByJob returns every item belonging to jobID, in insertion order.
func (r *ItemRepository) ListByJob(ctx context.Context, jobID string) ([]*job.Item, error) {
	return r.query(ctx, "SELECT "+itemColumns+" FROM import_items WHERE job_id = ? AND deleted_at IS NULL ORDER BY sequence", jobID)
}

// ListUncertainOrNotFound returns items awaiting a human decision.
func (r *ItemRepository) ListUncertainOrNotFound(ctx context.Context, jobID string) ([]*job.Item, error) {
	return r.query(ctx, `
		SELECT `+itemColumns+` FROM import_items
		WHERE job_id = ? AND deleted_at IS NULL AND classification IN (?, ?)
		ORDER BY sequence
	`, jobID, string(track.Uncertain), string(track.NotFound))
}

// ListMatched returns items cleared for insertion at finalize time.
func (r *ItemRepository) ListMatched(ctx context.Context, jobID string) ([]*job.Item, error) {
	return r.query(ctx, `
		SELECT `+itemColumns+` FROM import_items
		WHERE job_id = ? AND deleted_at IS NULL AND classification = ?
		ORDER BY sequence
	`, jobID, string(track.Matched))
}

// UpdateDecision persists a reviewer's classification and target selection.
// Only Classification and SelectedTargetID are mutable post-match.
func (r *ItemRepository) UpdateDecision(ctx context.Context, item *job.Item) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE import_items
		SET classification = ?, selected_target_id = ?, updated_at = ?
		WHERE id = ?
	`, string(item.Classification), nullIfEmpty(item.SelectedTargetID), time.Now(), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item decision: %w", err)
	}
	return nil
}

const itemColumns = `
	id, job_id, source_name, source_artists, source_album, source_duration_ms,
	source_isrc, source_id, best_target_id, best_title, best_artists, best_album,
	best_duration_secs, best_isrc, best_score, classification, selected_target_id
`

func (r *ItemRepository) query(ctx context.Context, query string, args ...any) ([]*job.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import items: %w", err)
	}
	defer rows.Close()

	var items []*job.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row scannable) (*job.Item, error) {
	var (
		id, jobID, sourceName, sourceArtists, classification string
		sourceAlbum, sourceISRC, sourceID                     sql.NullString
		sourceDurationMS                                      int64
		bestTargetID, bestTitle, bestArtists, bestAlbum       sql.NullString
		bestISRC, selectedTargetID                            sql.NullString
		bestDurationSecs                                      sql.NullInt64
		bestScore                                             sql.NullFloat64
	)
	err := row.Scan(
		&id, &jobID, &sourceName, &sourceArtists, &sourceAlbum, &sourceDurationMS,
		&sourceISRC, &sourceID, &bestTargetID, &bestTitle, &bestArtists, &bestAlbum,
		&bestDurationSecs, &bestISRC, &bestScore, &classification, &selectedTargetID,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: item not found", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan import item: %w", err)
	}

	var artists []string
	if err := json.Unmarshal([]byte(sourceArtists), &artists); err != nil {
		return nil, fmt.Errorf("failed to decode source artists: %w", err)
	}

	item := &job.Item{
		ID:    id,
		JobID: jobID,
		Source: track.SourceTrack{
			Name:       sourceName,
			Artists:    artists,
			Album:      sourceAlbum.String,
			DurationMS: sourceDurationMS,
			ISRC:       sourceISRC.String,
			SourceID:   sourceID.String,
		},
		Classification:   track.Classification(classification),
		SelectedTargetID: selectedTargetID.String,
	}

	if bestTargetID.Valid {
		var bestArtistList []string
		if bestArtists.Valid && bestArtists.String != "" {
			if err := json.Unmarshal([]byte(bestArtists.String), &bestArtistList); err != nil {
				return nil, fmt.Errorf("failed to decode best artists: %w", err)
			}
		}
		item.Best = &track.Candidate{
			TargetID:     bestTargetID.String,
			Title:        bestTitle.String,
			Artists:      bestArtistList,
			Album:        bestAlbum.String,
			DurationSecs: bestDurationSecs.Int64,
			ISRC:         bestISRC.String,
			Score:        bestScore.Float64,
		}
	}

	return item, nil
}
