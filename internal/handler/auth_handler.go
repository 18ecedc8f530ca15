package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"taskapi/internal/repository"
	"taskapi/internal/validation"
)

// tokenBytes is the amount of random material behind each issued token.
const tokenBytes = 60

// AuthHandler implements the mock login flow: credentials are
// validated (and optionally checked against the users table), then a
// random opaque token is issued. Nothing stores or later verifies the
// token — hardening this means signed or server-side tokens plus a
// real check in the middleware.
type AuthHandler struct {
	userRepo         repository.UserRepositoryInterface
	checkCredentials bool
}

func NewAuthHandler(userRepo repository.UserRepositoryInterface, checkCredentials bool) *AuthHandler {
	return &AuthHandler{
		userRepo:         userRepo,
		checkCredentials: checkCredentials,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login выдаёт новый случайный токен после проверки учётных данных
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if errs := validation.Fields(req); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
		return
	}

	user := gin.H{
		"name":  "Test User",
		"email": req.Email,
	}

	if h.checkCredentials {
		// Ищем пользователя и сверяем хеш пароля
		found, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to look up account", "error": err.Error()})
			return
		}
		if found == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Account not found"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(found.HashedPassword), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Wrong password"})
			return
		}
		user = gin.H{
			"id":    found.ID.String(),
			"name":  found.Name,
			"email": found.Email,
		}
	}

	token, err := generateToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to generate token", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data": gin.H{
			"token":      token,
			"token_type": "Bearer",
			"user":       user,
		},
	})
}

// Logout always succeeds: tokens are not tracked server-side, so there
// is nothing to invalidate.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully logged out",
	})
}

// Me returns a fixed user projection. The opaque token carries no
// identity, so there is no account to look up.
func (h *AuthHandler) Me(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Unauthorized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"email": "user@example.com",
			"name":  "Test User",
		},
	})
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
