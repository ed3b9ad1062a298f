package tasks

import (
	"context"
	"fmt"
	"math"
	"time"

	"taskboard/internal/models"
)

const allClearSuggestion = "All clear! Add something new to keep momentum."

// DaySet is a set of calendar days keyed by DayKey.
type DaySet map[string]struct{}

// Has reports whether the calendar day of t is in the set.
func (d DaySet) Has(t time.Time) bool {
	_, ok := d[DayKey(t)]
	return ok
}

// DayKey formats the calendar day of t in its own location.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Snapshot is a point-in-time copy of the store used for insights.
type Snapshot struct {
	Tasks []models.Task
	Days  DaySet
	Now   time.Time
}

// Insights computes the summary for the current store state.
func (s *Store) Insights(ctx context.Context) models.Insight {
	return Summarize(s.Snapshot())
}

// Summarize bundles counts, progress, streak and suggestion.
func Summarize(snap Snapshot) models.Insight {
	completed := 0
	for _, t := range snap.Tasks {
		if t.Completed {
			completed++
		}
	}

	return models.Insight{
		Total:      len(snap.Tasks),
		Completed:  completed,
		Progress:   Progress(completed, len(snap.Tasks)),
		StreakDays: Streak(snap.Days, snap.Now),
		Suggestion: Suggestion(snap.Tasks),
	}
}

// Progress returns the completed share as a percentage rounded to two
// decimals. It is 0 when there are no tasks.
func Progress(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(completed) / float64(total) * 100
	return math.Round(pct*100) / 100
}

// Streak counts consecutive marked days ending today.
func Streak(days DaySet, today time.Time) int {
	streak := 0
	for cursor := today; days.Has(cursor); cursor = cursor.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// Suggestion names the oldest incomplete task.
func Suggestion(list []models.Task) string {
	var oldest *models.Task
	for i := range list {
		t := &list[i]
		if t.Completed {
			continue
		}
		if oldest == nil || t.CreatedAt.Before(oldest.CreatedAt) {
			oldest = t
		}
	}
	if oldest == nil {
		return allClearSuggestion
	}
	return fmt.Sprintf("Try finishing: “%s” next.", oldest.Title)
}
