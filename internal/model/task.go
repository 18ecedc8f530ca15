package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TaskStatuses and TaskPriorities list the accepted enum values in the
// order they are reported in validation messages.
var (
	TaskStatuses   = []string{StatusPending, StatusInProgress, StatusCompleted}
	TaskPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null;uniqueIndex"`
	Description string
	Status      string     `gorm:"not null;default:pending;index"`
	Priority    string     `gorm:"not null;default:medium;index"`
	DueDate     *time.Time `gorm:"type:date;index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}
