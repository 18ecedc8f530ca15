package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskapi/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// allowedSortFields are the only columns List will order by. Anything
// else silently falls back to created_at.
var allowedSortFields = map[string]bool{
	"id":          true,
	"title":       true,
	"description": true,
	"status":      true,
	"priority":    true,
	"due_date":    true,
	"created_at":  true,
	"updated_at":  true,
}

// TaskListQuery carries the filters, ordering and pagination for List.
// Zero-value string filters are skipped; all supplied filters combine
// with AND.
type TaskListQuery struct {
	Status      string
	Priority    string
	Search      string
	DueDateFrom string
	DueDateTo   string
	SortBy      string
	SortOrder   string
	Page        int
	PerPage     int
}

// Normalize coerces invalid sort and pagination input to safe defaults
// instead of rejecting it: unknown sort fields become created_at, any
// order other than "asc" becomes desc, per_page is clamped to [1, 100]
// and page to a minimum of 1.
func (q *TaskListQuery) Normalize() {
	if !allowedSortFields[q.SortBy] {
		q.SortBy = "created_at"
	}
	if strings.EqualFold(q.SortOrder, "asc") {
		q.SortOrder = "asc"
	} else {
		q.SortOrder = "desc"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 1
	} else if q.PerPage > 100 {
		q.PerPage = 100
	}
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context, q TaskListQuery) ([]model.Task, int64, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	TitleExists(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error)
}

type TaskRepository struct {
	db *gorm.DB
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// List retrieves one page of tasks matching the query along with the
// total count of matching rows across all pages.
func (r *TaskRepository) List(ctx context.Context, q TaskListQuery) ([]model.Task, int64, error) {
	q.Normalize()

	db := r.db.WithContext(ctx).Model(&model.Task{})

	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Priority != "" {
		db = db.Where("priority = ?", q.Priority)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if q.DueDateFrom != "" {
		db = db.Where("due_date >= ?", q.DueDateFrom)
	}
	if q.DueDateTo != "" {
		db = db.Where("due_date <= ?", q.DueDateTo)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.Task
	result := db.
		Order(q.SortBy + " " + q.SortOrder).
		Limit(q.PerPage).
		Offset((q.Page - 1) * q.PerPage).
		Find(&tasks)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return tasks, total, nil
}

// Update persists all fields of an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// TitleExists reports whether another task already uses the given title.
// excludeID skips the task being updated so it does not collide with
// itself. The check is advisory; the unique index on title is what
// holds under concurrent writes.
func (r *TaskRepository) TitleExists(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx).Model(&model.Task{}).Where("title = ?", title)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
