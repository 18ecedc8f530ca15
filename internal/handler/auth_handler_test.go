package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskapi/internal/handler"
	"taskapi/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// Мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func setupAuthTest(checkCredentials bool) (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockRepo := new(MockUserRepository)
	authHandler := handler.NewAuthHandler(mockRepo, checkCredentials)

	r.POST("/api/login", authHandler.Login)
	r.POST("/api/logout", authHandler.Logout)
	r.GET("/api/me", authHandler.Me)

	return r, mockRepo
}

func postLogin(router *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupAuthTest(true)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		Name:           "Test User",
		HashedPassword: string(hash),
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	// Act
	resp := postLogin(router, map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]any
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Login successful", response["message"])

	data := response["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "Bearer", data["token_type"])

	userData := data["user"].(map[string]any)
	assert.Equal(t, user.ID.String(), userData["id"])
	assert.Equal(t, "Test User", userData["name"])
	assert.Equal(t, "test@example.com", userData["email"])

	mockRepo.AssertExpectations(t)
}

func TestLogin_TokensDifferBetweenCalls(t *testing.T) {
	// Arrange
	router, mockRepo := setupAuthTest(true)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{ID: uuid.New(), Email: "test@example.com", Name: "Test User", HashedPassword: string(hash)}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	body := map[string]string{"email": "test@example.com", "password": "password123"}

	// Act — два последовательных логина
	first := postLogin(router, body)
	second := postLogin(router, body)

	// Assert — токены случайные и не совпадают
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)

	var firstResp, secondResp map[string]any
	assert.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))
	assert.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp))

	firstToken := firstResp["data"].(map[string]any)["token"].(string)
	secondToken := secondResp["data"].(map[string]any)["token"].(string)
	assert.NotEmpty(t, firstToken)
	assert.NotEqual(t, firstToken, secondToken)
}

func TestLogin_AccountNotFound(t *testing.T) {
	// Arrange
	router, mockRepo := setupAuthTest(true)
	mockRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	// Act
	resp := postLogin(router, map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Account not found")
	assert.Contains(t, resp.Body.String(), `"success":false`)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	router, mockRepo := setupAuthTest(true)

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	user := &model.User{ID: uuid.New(), Email: "test@example.com", Name: "Test User", HashedPassword: string(hash)}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	// Act
	resp := postLogin(router, map[string]string{
		"email":    "test@example.com",
		"password": "wrong-password",
	})

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Wrong password")
}

func TestLogin_InvalidEmail(t *testing.T) {
	// Arrange
	router, mockRepo := setupAuthTest(true)

	// Act
	resp := postLogin(router, map[string]string{
		"email":    "invalid-email",
		"password": "password123",
	})

	// Assert — валидация отрабатывает до обращения к БД
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var response map[string]any
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	errs := response["errors"].(map[string]any)
	assert.Contains(t, errs, "email")

	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestLogin_ShortPassword(t *testing.T) {
	// Arrange
	router, _ := setupAuthTest(true)

	// Act
	resp := postLogin(router, map[string]string{
		"email":    "test@example.com",
		"password": "12345",
	})

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var response map[string]any
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	errs := response["errors"].(map[string]any)
	assert.Contains(t, errs, "password")
}

func TestLogin_MockVariantAcceptsAnyCredentials(t *testing.T) {
	// Arrange — проверка учетных данных выключена
	router, mockRepo := setupAuthTest(false)

	// Act
	resp := postLogin(router, map[string]string{
		"email":    "whoever@example.com",
		"password": "whatever-password",
	})

	// Assert — БД не трогаем, токен выдаём
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]any
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	data := response["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "Bearer", data["token_type"])
	assert.Equal(t, "whoever@example.com", data["user"].(map[string]any)["email"])

	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestLogout(t *testing.T) {
	// Arrange
	router, _ := setupAuthTest(true)

	req, _ := http.NewRequest("POST", "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer mock-token-12345")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Successfully logged out")
}

func TestMe_WithHeader(t *testing.T) {
	// Arrange
	router, _ := setupAuthTest(true)

	req, _ := http.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer mock-token-12345")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]any
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	data := response["data"].(map[string]any)
	assert.Equal(t, "user@example.com", data["email"])
	assert.Equal(t, "Test User", data["name"])
}

func TestMe_NoHeader(t *testing.T) {
	// Arrange
	router, _ := setupAuthTest(true)

	req, _ := http.NewRequest("GET", "/api/me", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":false`)
}
