package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dailydev/internal/metrics"
	"github.com/dailydev/internal/service"
	"github.com/gin-gonic/gin"
)

type registerPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profilePayload struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// Register 注册新用户并返回令牌
func (a *API) Register(c *gin.Context) {
	var payload registerPayload
	if !bindJSON(c, &payload) {
		return
	}

	result, err := a.users.Register(service.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	metrics.RecordAuthEvent("register", err == nil)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			respondValidation(c, verr)
			return
		}
		a.serverError(c, err, "register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully!",
		"token":   result.Token,
		"user":    userToPayload(*result.User),
	})
}

// Login 校验凭据并返回令牌
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload) {
		return
	}

	q := &queryErrors{}
	if strings.TrimSpace(payload.Email) == "" {
		q.add("email", "email is required", payload.Email)
	}
	if payload.Password == "" {
		q.add("password", "password is required", "")
	}
	if q.respond(c) {
		return
	}

	result, err := a.users.Login(payload.Email, payload.Password)
	metrics.RecordAuthEvent("login", err == nil)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		a.serverError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully!",
		"token":   result.Token,
		"user":    userToPayload(*result.User),
	})
}

// Me 返回当前登录用户
func (a *API) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": userToPayload(*principal(c))})
}

// UpdateAuthProfile 更新资料，响应字段为 user
func (a *API) UpdateAuthProfile(c *gin.Context) {
	user, ok := a.updateProfile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully!", "user": userToPayload(*user)})
}

// Logout 令牌无状态，客户端丢弃即可
func (a *API) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
