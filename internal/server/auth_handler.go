package server

import (
	"errors"
	"net/http"

	"github.com/eventkeeper/reminder-service/internal/auth"
	"github.com/eventkeeper/reminder-service/internal/users"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	directory users.UserDirectory
	tokens    *auth.Manager
	log       *zap.Logger
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(directory users.UserDirectory, tokens *auth.Manager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		directory: directory,
		tokens:    tokens,
		log:       log,
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.directory.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, users.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		h.log.Error("Failed to register user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	h.log.Info("User registered", zap.String("username", req.Username))
	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.directory.Verify(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}
		h.log.Error("Failed to verify credentials", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	token, err := h.tokens.IssueToken(req.Username)
	if err != nil {
		h.log.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	h.log.Info("User logged in", zap.String("username", req.Username))
	c.JSON(http.StatusOK, gin.H{"token": token})
}
