package model

import "time"

// Prediction records a single successful classification call as
// stored in the `predictions` table. Rows are append-only: they are
// written exactly once by the gateway after the classifier succeeds
// and are never updated or deleted.
//
// Fields:
//  ID         – primary key identifier; also the insertion order.
//  Username   – account that made the call. References
//               users.username by value only; no foreign key is
//               enforced because accounts are never deleted.
//  Text       – the input text that was classified.
//  Emotion    – label returned by the classifier.
//  Confidence – classifier confidence in [0, 1].
//  CreatedAt  – timestamp of the call.
type Prediction struct {
	ID         uint64    // predictions.id
	Username   string    // predictions.username
	Text       string    // predictions.text
	Emotion    string    // predictions.emotion
	Confidence float64   // predictions.confidence
	CreatedAt  time.Time // predictions.created_at
}

// HistoryEntry is one element of a user's prediction history as
// returned by the /history endpoint, newest first.
type HistoryEntry struct {
	Text      string    `json:"text"`
	Emotion   string    `json:"emotion"`
	Timestamp time.Time `json:"timestamp"`
}

// StatisticsSnapshot aggregates the whole predictions table at a
// point in time. It is recomputed on every query and never stored.
// MostCommonEmotion is nil when no predictions exist; ties are
// broken in favour of the emotion that was recorded first.
type StatisticsSnapshot struct {
	TotalPredictions  int64            `json:"total_predictions"`
	EmotionsCount     map[string]int64 `json:"emotions_count"`
	MostCommonEmotion *string          `json:"most_common_emotion"`
}
