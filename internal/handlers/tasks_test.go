package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"todos-api/internal/handlers"
	"todos-api/internal/middleware"
	"todos-api/internal/models"
	"todos-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockTaskService struct {
	shouldReturnError bool
	returnNotFound    bool
	tasks             []models.Task
	lastPatch         services.TaskPatch
	lastParams        services.ListTasksParams
}

func (m *MockTaskService) CreateTask(db *gorm.DB, userID uuid.UUID, input services.TaskCreateInput) (models.Task, error) {
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}

	status := input.Status
	if status == "" {
		status = models.StatusPending
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
	}
	m.tasks = append(m.tasks, task)
	return task, nil
}

func (m *MockTaskService) ListTasks(db *gorm.DB, userID uuid.UUID, params services.ListTasksParams) ([]models.Task, error) {
	if m.shouldReturnError {
		return nil, gorm.ErrInvalidData
	}
	m.lastParams = params
	return m.tasks, nil
}

func (m *MockTaskService) GetTaskByID(db *gorm.DB, userID, taskID uuid.UUID) (models.Task, error) {
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}

	for _, task := range m.tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return models.Task{ID: taskID, UserID: userID, Title: "Test Task", Status: models.StatusPending}, nil
}

func (m *MockTaskService) UpdateTask(db *gorm.DB, userID, taskID uuid.UUID, patch services.TaskPatch) (models.Task, error) {
	if m.shouldReturnError {
		return models.Task{}, gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	m.lastPatch = patch

	task := models.Task{ID: taskID, UserID: userID, Title: "Test Task", Status: models.StatusPending}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	return task, nil
}

func (m *MockTaskService) DeleteTask(db *gorm.DB, userID, taskID uuid.UUID) error {
	if m.shouldReturnError {
		return gorm.ErrInvalidData
	}
	if m.returnNotFound {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func setupTaskRouter(authenticated bool) (*MockTaskService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := &MockTaskService{}
	handler := handlers.NewTaskHandler(nil, mockService)
	router := gin.New()

	if authenticated {
		router.Use(func(c *gin.Context) {
			middleware.SetCurrentUser(c, &models.User{
				ID:    uuid.Must(uuid.NewV4()),
				Email: "a@test.com",
			})
			c.Next()
		})
	}

	router.POST("/tasks", handler.CreateTask)
	router.GET("/tasks", handler.ListTasks)
	router.GET("/tasks/:id", handler.GetTask)
	router.PUT("/tasks/:id", handler.UpdateTask)
	router.DELETE("/tasks/:id", handler.DeleteTask)

	return mockService, router
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateTask(t *testing.T) {
	_, router := setupTaskRouter(true)

	req := jsonRequest("POST", "/tasks", map[string]string{
		"title":       "Primera",
		"description": "Desc",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if task.Status != models.StatusPending {
		t.Errorf("Expected default status 'pending', got %q", task.Status)
	}
}

func TestCreateTask_InvalidJSON(t *testing.T) {
	_, router := setupTaskRouter(true)

	req, _ := http.NewRequest("POST", "/tasks", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTask_MissingTitle(t *testing.T) {
	_, router := setupTaskRouter(true)

	req := jsonRequest("POST", "/tasks", map[string]string{"description": "Desc"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTask_InvalidStatus(t *testing.T) {
	_, router := setupTaskRouter(true)

	req := jsonRequest("POST", "/tasks", map[string]string{
		"title":  "Primera",
		"status": "archived",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateTask_Unauthenticated(t *testing.T) {
	_, router := setupTaskRouter(false)

	req := jsonRequest("POST", "/tasks", map[string]string{"title": "Primera"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestListTasks_Defaults(t *testing.T) {
	mockService, router := setupTaskRouter(true)

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	if mockService.lastParams.Limit != 50 {
		t.Errorf("Expected default limit 50, got %d", mockService.lastParams.Limit)
	}

	if mockService.lastParams.Offset != 0 {
		t.Errorf("Expected default offset 0, got %d", mockService.lastParams.Offset)
	}
}

func TestListTasks_PassesFilters(t *testing.T) {
	mockService, router := setupTaskRouter(true)

	req, _ := http.NewRequest("GET", "/tasks?limit=10&offset=20&status=completed&search=desc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	params := mockService.lastParams
	if params.Limit != 10 || params.Offset != 20 {
		t.Errorf("Expected limit=10 offset=20, got limit=%d offset=%d", params.Limit, params.Offset)
	}
	if params.Status != "completed" || params.Search != "desc" {
		t.Errorf("Expected status=completed search=desc, got status=%q search=%q", params.Status, params.Search)
	}
}

func TestListTasks_LimitOutOfRange(t *testing.T) {
	_, router := setupTaskRouter(true)

	for _, query := range []string{"limit=0", "limit=201", "limit=abc", "offset=-1", "offset=abc"} {
		req, _ := http.NewRequest("GET", "/tasks?"+query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Query %q: expected status %d, got %d", query, http.StatusBadRequest, w.Code)
		}
	}
}

func TestListTasks_EmptyResultIsArray(t *testing.T) {
	_, router := setupTaskRouter(true)

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var tasks []models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("Expected a JSON array, got %s", w.Body.String())
	}
}

func TestGetTask_NotFound(t *testing.T) {
	mockService, router := setupTaskRouter(true)
	mockService.returnNotFound = true

	req, _ := http.NewRequest("GET", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestGetTask_MalformedID(t *testing.T) {
	_, router := setupTaskRouter(true)

	req, _ := http.NewRequest("GET", "/tasks/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestUpdateTask_PartialPayload(t *testing.T) {
	mockService, router := setupTaskRouter(true)

	req := jsonRequest("PUT", "/tasks/"+uuid.Must(uuid.NewV4()).String(), map[string]string{
		"status": "completed",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	patch := mockService.lastPatch
	if patch.Status == nil || *patch.Status != "completed" {
		t.Error("Expected status to be set in the patch")
	}
	if patch.Title != nil || patch.Description != nil {
		t.Error("Expected omitted fields to stay nil in the patch")
	}

	var task models.Task
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if task.Status != models.StatusCompleted {
		t.Errorf("Expected status 'completed', got %q", task.Status)
	}
}

func TestUpdateTask_InvalidStatus(t *testing.T) {
	_, router := setupTaskRouter(true)

	req := jsonRequest("PUT", "/tasks/"+uuid.Must(uuid.NewV4()).String(), map[string]string{
		"status": "archived",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestUpdateTask_EmptyTitle(t *testing.T) {
	_, router := setupTaskRouter(true)

	req := jsonRequest("PUT", "/tasks/"+uuid.Must(uuid.NewV4()).String(), map[string]string{
		"title": "",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	mockService, router := setupTaskRouter(true)
	mockService.returnNotFound = true

	req := jsonRequest("PUT", "/tasks/"+uuid.Must(uuid.NewV4()).String(), map[string]string{
		"status": "completed",
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	_, router := setupTaskRouter(true)

	req, _ := http.NewRequest("DELETE", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status %d, got %d", http.StatusNoContent, w.Code)
	}

	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %s", w.Body.String())
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	mockService, router := setupTaskRouter(true)
	mockService.returnNotFound = true

	req, _ := http.NewRequest("DELETE", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestTaskError_StorageFailureIsGeneric500(t *testing.T) {
	mockService, router := setupTaskRouter(true)
	mockService.shouldReturnError = true

	req, _ := http.NewRequest("GET", "/tasks", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	expected := `{"error":"failed to process task request"}`
	if w.Body.String() != expected {
		t.Errorf("Expected generic body %s, got %s", expected, w.Body.String())
	}
}
