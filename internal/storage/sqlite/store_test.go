package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/models"
	"taskboard/internal/tasks"
)

var _ tasks.Repository = (*Store)(nil)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "taskboard.db")
	store, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("", nil)
	assert.Error(t, err)
}

func TestSaveAndLoadTasks(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, time.May, 4, 8, 15, 30, 123000000, time.UTC)
	value := 2
	unit := "hours"

	first := models.Task{ID: "b", Title: "first", Priority: "normal", CreatedAt: created}
	second := models.Task{
		ID:            "a",
		Title:         "second",
		Priority:      "high",
		EstimateValue: &value,
		EstimateUnit:  &unit,
		CreatedAt:     created.Add(time.Minute),
	}
	require.NoError(t, store.SaveTask(ctx, second))
	require.NoError(t, store.SaveTask(ctx, first))

	loaded, err := store.LoadTasks(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "b", loaded[0].ID)
	assert.True(t, loaded[0].CreatedAt.Equal(created))
	assert.Nil(t, loaded[0].EstimateValue)
	assert.Nil(t, loaded[0].EstimateUnit)
	assert.Nil(t, loaded[0].CompletedAt)

	assert.Equal(t, "a", loaded[1].ID)
	assert.Equal(t, "high", loaded[1].Priority)
	require.NotNil(t, loaded[1].EstimateValue)
	assert.Equal(t, 2, *loaded[1].EstimateValue)
	require.NotNil(t, loaded[1].EstimateUnit)
	assert.Equal(t, "hours", *loaded[1].EstimateUnit)
}

func TestSaveCompletionMarksAndUnmarksDay(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	task := models.Task{ID: "t1", Title: "toggle", Priority: "normal", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.SaveTask(ctx, task))

	done := time.Now().UTC()
	task.Completed = true
	task.CompletedAt = &done
	require.NoError(t, store.SaveCompletion(ctx, task, "2024-05-04"))
	require.NoError(t, store.SaveCompletion(ctx, task, "2024-05-05"))

	days, err := store.LoadDays(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-04", "2024-05-05"}, days)

	loaded, err := store.LoadTasks(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, loaded[0].Completed)
	require.NotNil(t, loaded[0].CompletedAt)
	assert.True(t, loaded[0].CompletedAt.Equal(done))

	task.Completed = false
	task.CompletedAt = nil
	require.NoError(t, store.SaveCompletion(ctx, task, "2024-05-05"))

	days, err = store.LoadDays(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-04"}, days)

	loaded, err = store.LoadTasks(ctx)
	require.NoError(t, err)
	assert.False(t, loaded[0].Completed)
	assert.Nil(t, loaded[0].CompletedAt)
}

func TestDeleteTask(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, models.Task{ID: "gone", Title: "gone", Priority: "normal", CreatedAt: time.Now().UTC()}))
	require.NoError(t, store.DeleteTask(ctx, "gone"))
	require.NoError(t, store.DeleteTask(ctx, "gone"))

	loaded, err := store.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestTaskStoreSurvivesReopen(t *testing.T) {
	repo, path := newTestStore(t)
	ctx := context.Background()

	store := tasks.New(tasks.WithRepository(repo))
	task, err := store.Create(ctx, tasks.NewTask{Title: "persist me"})
	require.NoError(t, err)
	_, err = store.Toggle(ctx, task.ID, true)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	restored := tasks.New(tasks.WithRepository(reopened))
	require.NoError(t, restored.Load(ctx))

	list, err := restored.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "persist me", list[0].Title)
	assert.True(t, list[0].Completed)

	insight := restored.Insights(ctx)
	assert.Equal(t, 100.0, insight.Progress)
	assert.Equal(t, 1, insight.StreakDays)
}
