// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"taskdesk/internal/domain/auth"
	"taskdesk/internal/handlers"
	"taskdesk/internal/middleware"
	"taskdesk/internal/pkg/apiclient"
	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/pkg/response"
	authUsecase "taskdesk/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Pages ==========

func (h *AuthHandler) LoginPage(c *gin.Context) {
	response.Success(c, http.StatusOK, "login", gin.H{
		"page":   navigation.RouteLogin,
		"fields": []string{"username", "password"},
		"links":  gin.H{"register": navigation.RouteRegister},
	})
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	response.Success(c, http.StatusOK, "register", gin.H{
		"page":   navigation.RouteRegister,
		"fields": []string{"email", "username", "password", "firstName", "lastName"},
		"links":  gin.H{"login": navigation.RouteLogin},
	})
}

func (h *AuthHandler) Dashboard(c *gin.Context) {
	user := middleware.MustGetUser(c)

	response.Success(c, http.StatusOK, "dashboard", gin.H{
		"page":        navigation.RouteDashboard,
		"user":        user,
		"displayName": user.DisplayName(),
		"links": gin.H{
			"tasks":      navigation.RouteTasks,
			"categories": navigation.RouteCategories,
		},
	})
}

// ========== Login ==========

// Login signs in against the backend and starts the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginCredentials
	if !handlers.BindJSON(c, &req) {
		return
	}

	res, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("login failed", zap.String("username", req.Username), zap.Error(err))

		// bad credentials stay on the login page with the server's message
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			response.Error(c, http.StatusUnauthorized, apiErr.UserMessage(), nil)
			return
		}
		handlers.Fail(c, err)
		return
	}

	if err := h.authService.StartSession(c.Request.Context(), res); err != nil {
		h.logger.Error("failed to start session", zap.String("user_id", res.User.ID), zap.Error(err))
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "login successful", gin.H{
		"user":     res.User,
		"redirect": navigation.RouteDashboard,
	})
}

// ========== Registration ==========

// Register creates the account. The user signs in separately afterwards.
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterData
	if !handlers.BindJSON(c, &req) {
		return
	}

	res, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("registration failed", zap.String("username", req.Username), zap.Error(err))
		handlers.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res.Message, gin.H{
		"redirect": navigation.RouteLogin,
	})
}

// ========== Logout ==========

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logout successful", gin.H{
		"redirect": navigation.RouteLogin,
	})
}
