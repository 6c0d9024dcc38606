// Package session keeps the submissions made during one coaching session.
// Nothing is written to disk; a Log lives exactly as long as its owner.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/lamim/quillcoach/internal/util"
	"github.com/lamim/quillcoach/pkg/models"
)

// DefaultMaxStoredText is how many runes of a submission are kept
const DefaultMaxStoredText = 500

// Log is an append-only record of submissions. It is not safe for
// concurrent use; the coach drives it from a single goroutine.
type Log struct {
	id            string
	startedAt     time.Time
	maxStoredText int
	records       []models.SubmissionRecord
	now           func() time.Time
}

// New creates an empty log. maxStoredText <= 0 selects DefaultMaxStoredText.
func New(maxStoredText int) *Log {
	if maxStoredText <= 0 {
		maxStoredText = DefaultMaxStoredText
	}
	return &Log{
		id:            uuid.New().String(),
		startedAt:     time.Now(),
		maxStoredText: maxStoredText,
		now:           time.Now,
	}
}

// ID identifies the session in logs
func (l *Log) ID() string {
	return l.id
}

// StartedAt returns when the log was created
func (l *Log) StartedAt() time.Time {
	return l.startedAt
}

// MaxStoredText returns the per-record text limit in runes
func (l *Log) MaxStoredText() int {
	return l.maxStoredText
}

// Record appends a submission, truncating text to the configured limit,
// and returns the stored record. The stored result is a deep copy, so later
// edits to result's decoded object do not reach the log.
func (l *Log) Record(kind models.TaskKind, genre, text string, result models.ParsedResult) models.SubmissionRecord {
	rec := models.SubmissionRecord{
		ID:          uuid.New().String(),
		Kind:        kind,
		Genre:       genre,
		Text:        util.TruncateRunes(text, l.maxStoredText),
		Result:      result.Clone(),
		SubmittedAt: l.now(),
	}
	l.records = append(l.records, rec)
	rec.Result = rec.Result.Clone()
	return rec
}

// Records returns deep copies of the stored records in submission order
func (l *Log) Records() []models.SubmissionRecord {
	out := make([]models.SubmissionRecord, len(l.records))
	for i, rec := range l.records {
		rec.Result = rec.Result.Clone()
		out[i] = rec
	}
	return out
}

// Len returns the number of stored records
func (l *Log) Len() int {
	return len(l.records)
}

// Last returns the most recent record
func (l *Log) Last() (models.SubmissionRecord, bool) {
	if len(l.records) == 0 {
		return models.SubmissionRecord{}, false
	}
	rec := l.records[len(l.records)-1]
	rec.Result = rec.Result.Clone()
	return rec, true
}
