package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskapi/internal/model"
	"taskapi/internal/repository"
	"taskapi/internal/validation"
)

type TaskHandler struct {
	taskRepo repository.TaskRepositoryInterface
}

func NewTaskHandler(taskRepo repository.TaskRepositoryInterface) *TaskHandler {
	return &TaskHandler{taskRepo: taskRepo}
}

// taskStoreRequest — тело запроса на создание задачи
type taskStoreRequest struct {
	Title       *string `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02,after_or_equal_today"`
}

// taskUpdateRequest — тело запроса на частичное обновление; меняются
// только присланные поля
type taskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02,after_or_equal_today"`
}

// TaskResponse представляет задачу в ответе API
type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.DueDate != nil {
		due := validation.FormatDate(*task.DueDate)
		resp.DueDate = &due
	}
	return resp
}

// List возвращает отфильтрованный, отсортированный и постраничный
// список задач
func (h *TaskHandler) List(c *gin.Context) {
	q := repository.TaskListQuery{
		Status:      c.Query("status"),
		Priority:    c.Query("priority"),
		Search:      c.Query("search"),
		DueDateFrom: c.Query("due_date_from"),
		DueDateTo:   c.Query("due_date_to"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Page:        intQuery(c, "page", 1),
		PerPage:     intQuery(c, "per_page", 10),
	}
	q.Normalize()

	tasks, total, err := h.taskRepo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve tasks", "error": err.Error()})
		return
	}

	items := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, toTaskResponse(&tasks[i]))
	}

	lastPage := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}

	// from/to — null, когда страница пустая
	var from, to any
	if len(items) > 0 {
		first := (q.Page-1)*q.PerPage + 1
		from = first
		to = first + len(items) - 1
	}

	var prev, next any
	if q.Page > 1 {
		prev = pageURL(c, q.Page-1)
	}
	if q.Page < lastPage {
		next = pageURL(c, q.Page+1)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"meta": gin.H{
			"current_page": q.Page,
			"from":         from,
			"last_page":    lastPage,
			"per_page":     q.PerPage,
			"to":           to,
			"total":        total,
		},
		"links": gin.H{
			"first": pageURL(c, 1),
			"last":  pageURL(c, lastPage),
			"prev":  prev,
			"next":  next,
		},
	})
}

// Create создаёт новую задачу
func (h *TaskHandler) Create(c *gin.Context) {
	var req taskStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	errs := validation.Fields(req)

	// Уникальность названия проверяется отдельным запросом к БД
	if req.Title != nil && len(errs["title"]) == 0 {
		taken, err := h.taskRepo.TitleExists(c.Request.Context(), *req.Title, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create task", "error": err.Error()})
			return
		}
		if taken {
			if errs == nil {
				errs = make(map[string][]string)
			}
			errs["title"] = append(errs["title"], validation.MsgTitleTaken)
		}
	}

	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
		return
	}

	task := &model.Task{
		Title:    *req.Title,
		Status:   model.StatusPending,
		Priority: model.PriorityMedium,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		due, _ := validation.ParseDate(*req.DueDate)
		task.DueDate = &due
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create task", "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task created successfully",
		"data":    toTaskResponse(task),
	})
}

// Show возвращает задачу по её ID
func (h *TaskHandler) Show(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Некорректный ID неотличим от несуществующего
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve task", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toTaskResponse(task),
	})
}

// Update частично обновляет задачу: валидируются и применяются только
// присланные поля
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}

	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	errs := validation.Fields(req)

	// Пустое название проскакивает мимо omitempty — ловим вручную
	if req.Title != nil && *req.Title == "" {
		if errs == nil {
			errs = make(map[string][]string)
		}
		errs["title"] = append(errs["title"], validation.MsgTitleRequired)
	}

	// Уникальность — без учёта самой обновляемой задачи
	if req.Title != nil && len(errs["title"]) == 0 {
		taken, err := h.taskRepo.TitleExists(c.Request.Context(), *req.Title, &id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task", "error": err.Error()})
			return
		}
		if taken {
			if errs == nil {
				errs = make(map[string][]string)
			}
			errs["title"] = append(errs["title"], validation.MsgTitleTaken)
		}
	}

	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task", "error": err.Error()})
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		due, _ := validation.ParseDate(*req.DueDate)
		task.DueDate = &due
	}

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task", "error": err.Error()})
		return
	}

	// Перечитываем запись, чтобы вернуть актуальные таймстампы
	fresh, err := h.taskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task updated successfully",
		"data":    toTaskResponse(fresh),
	})
}

// Delete удаляет задачу
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), id); err != nil {
		if err == repository.ErrTaskNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete task", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted successfully",
	})
}

// intQuery parses an integer query parameter, falling back to the
// default on missing or non-numeric input.
func intQuery(c *gin.Context, key string, defaultVal int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return value
}

// pageURL rebuilds the request URL pointing at the given page, keeping
// only the page parameter.
func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s?page=%d", scheme, c.Request.Host, c.Request.URL.Path, page)
}
