package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
)

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, Progress(0, 0))
	assert.Equal(t, 0.0, Progress(0, 4))
	assert.Equal(t, 100.0, Progress(3, 3))
	assert.Equal(t, 33.33, Progress(1, 3))
	assert.Equal(t, 66.67, Progress(2, 3))
}

func TestStreak(t *testing.T) {
	today := time.Date(2024, time.March, 1, 9, 30, 0, 0, time.Local)
	day := func(offset int) string { return DayKey(today.AddDate(0, 0, offset)) }

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0, Streak(DaySet{}, today))
	})

	t.Run("today missing", func(t *testing.T) {
		days := DaySet{day(-1): {}, day(-2): {}}
		assert.Equal(t, 0, Streak(days, today))
	})

	t.Run("consecutive across month boundary", func(t *testing.T) {
		days := DaySet{day(0): {}, day(-1): {}, day(-2): {}, day(-4): {}}
		assert.Equal(t, 3, Streak(days, today))
	})

	t.Run("only today", func(t *testing.T) {
		assert.Equal(t, 1, Streak(DaySet{day(0): {}}, today))
	})
}

func TestSuggestion(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, allClearSuggestion, Suggestion(nil))

	list := []models.Task{
		{Title: "newer", CreatedAt: base.Add(2 * time.Hour)},
		{Title: "done", Completed: true, CreatedAt: base},
		{Title: "older", CreatedAt: base.Add(time.Hour)},
	}
	assert.Equal(t, "Try finishing: “older” next.", Suggestion(list))

	for i := range list {
		list[i].Completed = true
	}
	assert.Equal(t, allClearSuggestion, Suggestion(list))
}

func TestInsightsEmptyStore(t *testing.T) {
	store, _ := newTestStore(t)

	got := store.Insights(context.Background())
	assert.Equal(t, models.Insight{Suggestion: allClearSuggestion}, got)
}

func TestInsightsStreakAcrossDays(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		task, err := store.Create(ctx, NewTask{Title: "daily"})
		require.NoError(t, err)
		_, err = store.Toggle(ctx, task.ID, true)
		require.NoError(t, err)
		clock.Set(clock.Now().AddDate(0, 0, 1))
	}

	// Nothing completed on the current day yet.
	assert.Equal(t, 0, store.Insights(ctx).StreakDays)

	clock.Set(clock.Now().AddDate(0, 0, -1))
	assert.Equal(t, 3, store.Insights(ctx).StreakDays)
}

func TestWriteReportScenario(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, NewTask{Title: "Write report"})
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Write report", list[0].Title)
	assert.False(t, list[0].Completed)
	assert.Equal(t, "Try finishing: “Write report” next.", store.Insights(ctx).Suggestion)

	_, err = store.Toggle(ctx, task.ID, true)
	require.NoError(t, err)
	insight := store.Insights(ctx)
	assert.Equal(t, 100.0, insight.Progress)
	assert.Equal(t, 1, insight.StreakDays)
	assert.Equal(t, 1, insight.Completed)
	assert.Equal(t, allClearSuggestion, insight.Suggestion)

	_, err = store.Toggle(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Insights(ctx).StreakDays)

	require.NoError(t, store.Delete(ctx, task.ID))
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
