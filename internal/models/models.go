package models

import "time"

// Task represents a single to-do item on the board.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Completed     bool       `json:"completed"`
	Priority      string     `json:"priority"`
	EstimateValue *int       `json:"estimate_value"`
	EstimateUnit  *string    `json:"estimate_unit"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// Insight summarizes progress across all tasks.
type Insight struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Progress   float64 `json:"progress"`
	StreakDays int     `json:"streak_days"`
	Suggestion string  `json:"suggestion"`
}

// DefaultPriority is assigned when a task is created without one.
const DefaultPriority = "normal"

// MaxTitleLength is the upper bound for a trimmed task title, in characters.
const MaxTitleLength = 120
