package services

import (
	"strings"

	"todos-api/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskCreateInput struct {
	Title       string
	Description string
	Status      string
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
}

type ListTasksParams struct {
	Limit  int
	Offset int
	Status string
	Search string
}

type TaskService interface {
	CreateTask(db *gorm.DB, userID uuid.UUID, input TaskCreateInput) (models.Task, error)
	ListTasks(db *gorm.DB, userID uuid.UUID, params ListTasksParams) ([]models.Task, error)
	GetTaskByID(db *gorm.DB, userID, taskID uuid.UUID) (models.Task, error)
	UpdateTask(db *gorm.DB, userID, taskID uuid.UUID, patch TaskPatch) (models.Task, error)
	DeleteTask(db *gorm.DB, userID, taskID uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, userID uuid.UUID, input TaskCreateInput) (models.Task, error) {
	taskID, err := uuid.NewV4()
	if err != nil {
		return models.Task{}, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusPending
	}

	task := models.Task{
		ID:          taskID,
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
	}

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, userID uuid.UUID, params ListTasksParams) ([]models.Task, error) {
	query := db.Where("user_id = ?", userID)

	// Unknown status values apply no filter rather than failing the request.
	if models.ValidStatus(params.Status) {
		query = query.Where("status = ?", params.Status)
	}

	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	tasks := []models.Task{}
	err := query.Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// GetTaskByID scopes the lookup by owner, so a task owned by someone else is
// indistinguishable from a missing one.
func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, userID, taskID uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, userID, taskID uuid.UUID, patch TaskPatch) (models.Task, error) {
	task, err := s.GetTaskByID(db, userID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}

	if len(updates) == 0 {
		return task, nil
	}

	if err := db.Model(&task).Updates(updates).Error; err != nil {
		return models.Task{}, err
	}

	return task, nil
}

// DeleteTask issues a single owner-scoped DELETE and decides not-found from
// the affected row count, so there is no separate read to race against.
func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, userID, taskID uuid.UUID) error {
	result := db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
