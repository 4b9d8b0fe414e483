package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/emotion-detection-service/internal/model"
)

// PredictionRepo is the prediction store. Rows are append-only: Record is
// the only write path, and nothing updates or deletes. Statistics and
// History are plain reads with no transactional isolation against
// concurrent inserts; the aggregates are advisory, so a snapshot that
// misses an in-flight write is acceptable.
type PredictionRepo struct{ DB *sql.DB }

func NewPredictionRepo(db *sql.DB) *PredictionRepo { return &PredictionRepo{DB: db} }

// Record appends one prediction row. Confidence must lie in [0, 1];
// anything else is rejected before touching the database.
func (r *PredictionRepo) Record(ctx context.Context, username, text, emotion string, confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return ErrInvalidConfidence
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO predictions (username, text, emotion, confidence) VALUES (?,?,?,?)",
		username, text, emotion, confidence)
	return err
}

// Statistics scans the whole table grouped by emotion. The most common
// emotion is the label with the highest count; ties go to the label whose
// first prediction has the smallest id, i.e. the emotion recorded first
// wins. An empty table yields a zero total, an empty map and a nil most
// common emotion rather than an error.
func (r *PredictionRepo) Statistics(ctx context.Context) (model.StatisticsSnapshot, error) {
	snap := model.StatisticsSnapshot{EmotionsCount: map[string]int64{}}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT emotion, COUNT(*) AS cnt, MIN(id) AS first_id
		   FROM predictions
		   GROUP BY emotion
		   ORDER BY cnt DESC, first_id ASC`)
	if err != nil {
		return model.StatisticsSnapshot{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			emotion string
			cnt     int64
			firstID uint64
		)
		if err := rows.Scan(&emotion, &cnt, &firstID); err != nil {
			return model.StatisticsSnapshot{}, err
		}
		if snap.MostCommonEmotion == nil {
			top := emotion // first row carries the max count per the ORDER BY
			snap.MostCommonEmotion = &top
		}
		snap.EmotionsCount[emotion] = cnt
		snap.TotalPredictions += cnt
	}
	if err := rows.Err(); err != nil {
		return model.StatisticsSnapshot{}, err
	}
	return snap, nil
}

// History returns every prediction made by username, newest first. The id
// is the secondary sort key so rows created within the same timestamp
// granularity still come back in reverse insertion order. An unknown user
// yields an empty slice, not an error.
func (r *PredictionRepo) History(ctx context.Context, username string) ([]model.HistoryEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT text, emotion, created_at
		   FROM predictions
		   WHERE username = ?
		   ORDER BY created_at DESC, id DESC`,
		username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.Text, &e.Emotion, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
