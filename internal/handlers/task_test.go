package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/tasktrack/tasktrack-api/internal/constants"
	"github.com/tasktrack/tasktrack-api/internal/dto"
	"github.com/tasktrack/tasktrack-api/internal/lifecycle"
	"github.com/tasktrack/tasktrack-api/internal/models"
	"github.com/tasktrack/tasktrack-api/internal/repository"
	"github.com/tasktrack/tasktrack-api/internal/services"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	taskRepo repository.TaskRepository
	handler  *TaskHandler

	admin    lifecycle.Actor
	owner    lifecycle.Actor
	assignee lifecycle.Actor
	stranger lifecycle.Actor
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.db = openTestDB(suite.T())
	suite.taskRepo = repository.NewTaskRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	suite.handler = NewTaskHandler(services.NewTaskService(suite.taskRepo, userRepo, lifecycle.NewRules(nil)))

	suite.admin = suite.createTestUser("admin", models.RoleAdmin)
	suite.owner = suite.createTestUser("owner", models.RoleUser)
	suite.assignee = suite.createTestUser("assignee", models.RoleUser)
	suite.stranger = suite.createTestUser("stranger", models.RoleUser)
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(name string, role models.Role) lifecycle.Actor {
	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return lifecycle.Actor{ID: user.ID, Role: user.Role}
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, ownerID string, assigneeID *string) *models.Task {
	task, err := suite.taskRepo.Insert(context.Background(), &models.Task{
		Title:       title,
		Description: "Test Description",
		OwnerID:     ownerID,
		AssigneeID:  assigneeID,
	})
	suite.Require().NoError(err)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body any, actor lifecycle.Actor, taskID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyActor, actor)
	if taskID != "" {
		c.Set(constants.ContextKeyTaskID, taskID)
	}

	return c, w
}

type taskResponse struct {
	Success bool        `json:"success"`
	Data    dto.TaskDTO `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func (suite *TaskHandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	c, w := suite.createAuthContext(http.MethodPost, "/tasks", map[string]any{
		"title":       "New Task",
		"description": "Task description",
	}, suite.owner, "")

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusCreated, w.Code)
	var response taskResponse
	suite.decode(w, &response)
	suite.True(response.Success)
	suite.Equal("New Task", response.Data.Title)
	suite.Equal(suite.owner.ID, response.Data.Owner.ID)
	suite.Equal("owner", response.Data.Owner.Name)
	suite.False(response.Data.Completed)
	suite.False(response.Data.IsNotified)
	suite.Nil(response.Data.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_AdminAssigns() {
	c, w := suite.createAuthContext(http.MethodPost, "/tasks", map[string]any{
		"title":       "Assigned Task",
		"description": "For someone else",
		"assignedTo":  suite.assignee.ID,
	}, suite.admin, "")

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusCreated, w.Code)
	var response taskResponse
	suite.decode(w, &response)
	suite.Require().NotNil(response.Data.AssignedTo)
	suite.Equal(suite.assignee.ID, response.Data.AssignedTo.ID)
	suite.NotNil(response.Data.AssignedAt)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_ValidationError() {
	c, w := suite.createAuthContext(http.MethodPost, "/tasks", map[string]any{
		"title":       "   ",
		"description": "Task description",
	}, suite.owner, "")

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
	var response errorResponse
	suite.decode(w, &response)
	suite.False(response.Success)
	suite.Equal("title", response.Field)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownAssignee() {
	c, w := suite.createAuthContext(http.MethodPost, "/tasks", map[string]any{
		"title":       "Ghost",
		"description": "Nobody",
		"assignedTo":  "5f0e3c1a-0000-4000-8000-000000000000",
	}, suite.admin, "")

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
	var response errorResponse
	suite.decode(w, &response)
	suite.Equal("assignedTo", response.Field)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidBody() {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyActor, suite.owner)

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	suite.createTestTask("Own", suite.owner.ID, nil)
	suite.createTestTask("Given", suite.admin.ID, &suite.owner.ID)
	suite.createTestTask("Other", suite.stranger.ID, nil)

	c, w := suite.createAuthContext(http.MethodGet, "/tasks?page=1&limit=10", nil, suite.owner, "")

	suite.handler.ListTasks(c)

	suite.Equal(http.StatusOK, w.Code)
	var response dto.TaskListResponse
	suite.decode(w, &response)
	suite.True(response.Success)
	suite.Equal(2, response.Count)
	suite.Equal(int64(2), response.Pagination.Total)
	suite.Equal(10, response.Pagination.Limit)
}

func (suite *TaskHandlerTestSuite) TestGetTask_AssigneeIsNotified() {
	task := suite.createTestTask("Notify me", suite.admin.ID, &suite.assignee.ID)

	c, w := suite.createAuthContext(http.MethodGet, "/tasks/"+task.ID, nil, suite.assignee, task.ID)
	suite.handler.GetTask(c)

	suite.Equal(http.StatusOK, w.Code)
	var response taskResponse
	suite.decode(w, &response)
	suite.True(response.Data.IsNotified)

	stored, err := suite.taskRepo.FindByID(context.Background(), task.ID)
	suite.Require().NoError(err)
	suite.True(stored.IsNotified)
}

func (suite *TaskHandlerTestSuite) TestGetTask_Forbidden() {
	task := suite.createTestTask("Private", suite.owner.ID, nil)

	c, w := suite.createAuthContext(http.MethodGet, "/tasks/"+task.ID, nil, suite.stranger, task.ID)
	suite.handler.GetTask(c)

	suite.Equal(http.StatusForbidden, w.Code)
	var response errorResponse
	suite.decode(w, &response)
	suite.Contains(response.Message, "not authorized to access")
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	missing := "5f0e3c1a-0000-4000-8000-000000000000"

	c, w := suite.createAuthContext(http.MethodGet, "/tasks/"+missing, nil, suite.owner, missing)
	suite.handler.GetTask(c)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_Owner() {
	task := suite.createTestTask("Before", suite.owner.ID, nil)

	c, w := suite.createAuthContext(http.MethodPut, "/tasks/"+task.ID, map[string]any{
		"title":     "After",
		"completed": true,
	}, suite.owner, task.ID)
	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusOK, w.Code)
	var response taskResponse
	suite.decode(w, &response)
	suite.Equal("After", response.Data.Title)
	suite.True(response.Data.Completed)
	suite.Equal("Test Description", response.Data.Description)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_OwnerCannotAssign() {
	task := suite.createTestTask("Mine", suite.owner.ID, nil)

	c, w := suite.createAuthContext(http.MethodPut, "/tasks/"+task.ID, map[string]any{
		"assignedTo": suite.assignee.ID,
	}, suite.owner, task.ID)
	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusOK, w.Code)
	var response taskResponse
	suite.decode(w, &response)
	suite.Nil(response.Data.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_AssigneeForbidden() {
	task := suite.createTestTask("Shared", suite.admin.ID, &suite.assignee.ID)

	c, w := suite.createAuthContext(http.MethodPut, "/tasks/"+task.ID, map[string]any{
		"completed": true,
	}, suite.assignee, task.ID)
	suite.handler.UpdateTask(c)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.createTestTask("Doomed", suite.owner.ID, nil)

	c, w := suite.createAuthContext(http.MethodDelete, "/tasks/"+task.ID, nil, suite.stranger, task.ID)
	suite.handler.DeleteTask(c)
	suite.Equal(http.StatusForbidden, w.Code)

	c, w = suite.createAuthContext(http.MethodDelete, "/tasks/"+task.ID, nil, suite.owner, task.ID)
	suite.handler.DeleteTask(c)
	suite.Equal(http.StatusOK, w.Code)

	_, err := suite.taskRepo.FindByID(context.Background(), task.ID)
	suite.ErrorIs(err, repository.ErrNotFound)
}

func (suite *TaskHandlerTestSuite) TestRequiresActor() {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/tasks", nil)

	suite.handler.ListTasks(c)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
