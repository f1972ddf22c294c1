package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/tasktrack/tasktrack-api/internal/auth"
	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/database"
	"github.com/tasktrack/tasktrack-api/internal/dto"
	"github.com/tasktrack/tasktrack-api/internal/lifecycle"
	"github.com/tasktrack/tasktrack-api/internal/models"
	"github.com/tasktrack/tasktrack-api/internal/repository"
	"github.com/tasktrack/tasktrack-api/internal/services"
)

type RouterTestSuite struct {
	suite.Suite
	engine      *gin.Engine
	taskRepo    repository.TaskRepository
	authService *services.AuthService
	closeDB     func()
}

func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(&config.Config{DBDriver: "sqlite", DBPath: ":memory:", GinMode: "release"})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(db))
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	suite.closeDB = func() { sqlDB.Close() }

	suite.taskRepo = repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	suite.authService = services.NewAuthService(userRepo, false)

	suite.engine = New(Deps{
		TaskService:  services.NewTaskService(suite.taskRepo, userRepo, lifecycle.NewRules(nil)),
		AuthService:  suite.authService,
		Tokens:       auth.NewTokenManager("router-test-secret", time.Hour),
		SessionStore: cookie.NewStore([]byte("router-session-secret")),
	})
}

func (suite *RouterTestSuite) TearDownTest() {
	suite.closeDB()
}

// signUp creates a user directly and logs in over HTTP, returning the bearer token.
func (suite *RouterTestSuite) signUp(name string, role models.Role) (string, string) {
	user, err := suite.authService.CreateUser(context.Background(), services.RegisterInput{
		Name:     name,
		Email:    name + "@example.com",
		Password: "password123",
		Role:     role,
	})
	suite.Require().NoError(err)

	w := suite.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    name + "@example.com",
		"password": "password123",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Token string `json:"token"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return user.ID, response.Token
}

func (suite *RouterTestSuite) do(method, url, token string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.engine.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) decodeTask(w *httptest.ResponseRecorder) dto.TaskDTO {
	var response struct {
		Data dto.TaskDTO `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response.Data
}

func (suite *RouterTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
}

func (suite *RouterTestSuite) TestUnauthenticated() {
	w := suite.do(http.MethodGet, "/api/v1/tasks", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *RouterTestSuite) TestAdminAssignsAndAssigneeIsNotified() {
	_, adminToken := suite.signUp("admin", models.RoleAdmin)
	userID, userToken := suite.signUp("user", models.RoleUser)

	w := suite.do(http.MethodPost, "/api/v1/tasks", adminToken, map[string]any{
		"title":       "Review PR",
		"description": "Before Friday",
		"assignedTo":  userID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	created := suite.decodeTask(w)
	suite.Require().NotNil(created.AssignedTo)
	suite.Equal(userID, created.AssignedTo.ID)
	suite.NotNil(created.AssignedAt)
	suite.False(created.IsNotified)

	w = suite.do(http.MethodGet, "/api/v1/tasks", userToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.Equal(1, list.Count)

	w = suite.do(http.MethodGet, "/api/v1/tasks/"+created.ID, userToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.True(suite.decodeTask(w).IsNotified)

	stored, err := suite.taskRepo.FindByID(context.Background(), created.ID)
	suite.Require().NoError(err)
	suite.True(stored.IsNotified)
}

func (suite *RouterTestSuite) TestStrangerCannotDelete() {
	_, ownerToken := suite.signUp("owner", models.RoleUser)
	_, strangerToken := suite.signUp("stranger", models.RoleUser)

	w := suite.do(http.MethodPost, "/api/v1/tasks", ownerToken, map[string]any{
		"title":       "Keep me",
		"description": "Owner only",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	task := suite.decodeTask(w)

	w = suite.do(http.MethodDelete, "/api/v1/tasks/"+task.ID, strangerToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/tasks/"+task.ID, ownerToken, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RouterTestSuite) TestOwnerAssignmentIgnored() {
	_, ownerToken := suite.signUp("owner", models.RoleUser)
	otherID, _ := suite.signUp("other", models.RoleUser)

	w := suite.do(http.MethodPost, "/api/v1/tasks", ownerToken, map[string]any{
		"title":       "Solo",
		"description": "Just me",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	task := suite.decodeTask(w)

	w = suite.do(http.MethodPatch, "/api/v1/tasks/"+task.ID, ownerToken, map[string]any{
		"assignedTo": otherID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Nil(suite.decodeTask(w).AssignedTo)
}

func (suite *RouterTestSuite) TestInvalidTaskID() {
	_, token := suite.signUp("owner", models.RoleUser)

	w := suite.do(http.MethodGet, "/api/v1/tasks/12345", token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestUsersAdminOnly() {
	_, adminToken := suite.signUp("admin", models.RoleAdmin)
	_, userToken := suite.signUp("user", models.RoleUser)

	w := suite.do(http.MethodGet, "/api/v1/users", userToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/users", adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	var response struct {
		Count int `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(2, response.Count)
}

func (suite *RouterTestSuite) TestSessionLogin() {
	_, err := suite.authService.CreateUser(context.Background(), services.RegisterInput{
		Name:     "cookie",
		Email:    "cookie@example.com",
		Password: "password123",
	})
	suite.Require().NoError(err)

	w := suite.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "cookie@example.com",
		"password": "password123",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	suite.engine.ServeHTTP(me, req)
	suite.Equal(http.StatusOK, me.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
