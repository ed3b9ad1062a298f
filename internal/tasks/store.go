package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"taskboard/internal/models"
)

var (
	// ErrValidation reports input the caller has to correct.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound reports a task id that does not exist.
	ErrNotFound = errors.New("task not found")
)

// Repository mirrors store mutations into durable storage.
type Repository interface {
	LoadTasks(ctx context.Context) ([]models.Task, error)
	LoadDays(ctx context.Context) ([]string, error)
	SaveTask(ctx context.Context, task models.Task) error
	// SaveCompletion stores the toggled task and marks or unmarks day
	// according to task.Completed in one step.
	SaveCompletion(ctx context.Context, task models.Task, day string) error
	DeleteTask(ctx context.Context, id string) error
}

// NewTask carries the caller supplied fields of a task to create.
type NewTask struct {
	Title         string
	Priority      string
	EstimateValue *int
	EstimateUnit  *string
}

// Store holds the task list and the completion-day set behind one lock.
type Store struct {
	mu     sync.RWMutex
	tasks  []models.Task
	days   DaySet
	repo   Repository
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRepository attaches durable storage. Every mutation is written to it
// before the in-memory state changes.
func WithRepository(repo Repository) Option {
	return func(s *Store) {
		s.repo = repo
	}
}

// WithLogger sets the logger used for store events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		days:   DaySet{},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the repository contents.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	loaded, err := s.repo.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	dayList, err := s.repo.LoadDays(ctx)
	if err != nil {
		return fmt.Errorf("load completion days: %w", err)
	}

	days := make(DaySet, len(dayList))
	for _, d := range dayList {
		days[d] = struct{}{}
	}
	sortByCreation(loaded)

	s.mu.Lock()
	s.tasks = loaded
	s.days = days
	s.mu.Unlock()

	s.logger.Info("restored tasks", slog.Int("tasks", len(loaded)), slog.Int("completion_days", len(days)))
	return nil
}

// Create validates and appends a new task.
func (s *Store) Create(ctx context.Context, in NewTask) (models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Task{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return models.Task{}, fmt.Errorf("%w: title must be at most %d characters", ErrValidation, models.MaxTitleLength)
	}

	priority := strings.TrimSpace(in.Priority)
	if priority == "" {
		priority = models.DefaultPriority
	}

	task := models.Task{
		ID:            uuid.NewString(),
		Title:         title,
		Priority:      priority,
		EstimateValue: copyPtr(in.EstimateValue),
		EstimateUnit:  copyPtr(in.EstimateUnit),
		CreatedAt:     s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.SaveTask(ctx, task); err != nil {
			return models.Task{}, fmt.Errorf("save task: %w", err)
		}
	}
	s.tasks = append(s.tasks, task)
	return cloneTask(task), nil
}

// List returns every task ordered by creation time.
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := cloneTasks(s.tasks)
	sortByCreation(out)
	return out, nil
}

// Toggle sets the completion state of a task and updates today's mark in
// the completion-day set.
func (s *Store) Toggle(ctx context.Context, id string, completed bool) (models.Task, error) {
	now := s.now()
	today := DayKey(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	task := cloneTask(s.tasks[idx])
	task.Completed = completed
	task.CompletedAt = nil
	if completed {
		at := now.UTC()
		task.CompletedAt = &at
	}

	if s.repo != nil {
		if err := s.repo.SaveCompletion(ctx, task, today); err != nil {
			return models.Task{}, fmt.Errorf("save completion: %w", err)
		}
	}

	s.tasks[idx] = task
	if completed {
		s.days[today] = struct{}{}
	} else {
		delete(s.days, today)
	}
	return cloneTask(task), nil
}

// Delete removes a task by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if s.repo != nil {
		if err := s.repo.DeleteTask(ctx, id); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return nil
}

// Snapshot returns a consistent copy of the store state together with the
// current time.
func (s *Store) Snapshot() Snapshot {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make(DaySet, len(s.days))
	for d := range s.days {
		days[d] = struct{}{}
	}
	return Snapshot{Tasks: cloneTasks(s.tasks), Days: days, Now: now}
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func sortByCreation(list []models.Task) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

func cloneTasks(list []models.Task) []models.Task {
	out := make([]models.Task, len(list))
	for i := range list {
		out[i] = cloneTask(list[i])
	}
	return out
}

func cloneTask(t models.Task) models.Task {
	t.EstimateValue = copyPtr(t.EstimateValue)
	t.EstimateUnit = copyPtr(t.EstimateUnit)
	t.CompletedAt = copyPtr(t.CompletedAt)
	return t
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
