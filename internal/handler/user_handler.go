package handler

import (
	"errors"
	"net/http"

	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/service"
	"github.com/gin-gonic/gin"
)

type changePasswordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type deleteAccountPayload struct {
	Password string `json:"password"`
}

// GetProfile 返回当前用户资料
func (a *API) GetProfile(c *gin.Context) {
	respondData(c, http.StatusOK, "", userToPayload(*principal(c)))
}

// UpdateProfile 更新资料，响应字段为 data
func (a *API) UpdateProfile(c *gin.Context) {
	user, ok := a.updateProfile(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, "Profile updated successfully!", userToPayload(*user))
}

func (a *API) updateProfile(c *gin.Context) (*db.User, bool) {
	var payload profilePayload
	if !bindJSON(c, &payload) {
		return nil, false
	}

	user, err := a.users.UpdateProfile(principal(c).ID, service.ProfileInput{
		Name:   payload.Name,
		Avatar: payload.Avatar,
	})
	if err != nil {
		a.handleUserError(c, err, "update profile")
		return nil, false
	}
	return user, true
}

// ChangePassword 修改密码
func (a *API) ChangePassword(c *gin.Context) {
	var payload changePasswordPayload
	if !bindJSON(c, &payload) {
		return
	}

	if err := a.users.ChangePassword(principal(c).ID, payload.CurrentPassword, payload.NewPassword); err != nil {
		if errors.Is(err, service.ErrIncorrectPassword) {
			respondError(c, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		a.handleUserError(c, err, "change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully!"})
}

// DeleteAccount 确认密码后删除账号及其全部数据
func (a *API) DeleteAccount(c *gin.Context) {
	var payload deleteAccountPayload
	if !bindJSON(c, &payload) {
		return
	}

	if err := a.users.DeleteAccount(principal(c).ID, payload.Password); err != nil {
		if errors.Is(err, service.ErrIncorrectPassword) {
			respondError(c, http.StatusBadRequest, "Incorrect password")
			return
		}
		a.handleUserError(c, err, "delete account")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully. See you!"})
}

// GetUserStats 返回账号概览
func (a *API) GetUserStats(c *gin.Context) {
	overview, err := a.stats.Overview(principal(c))
	if err != nil {
		a.serverError(c, err, "user stats")
		return
	}
	respondData(c, http.StatusOK, "", overviewPayload(overview))
}

func (a *API) handleUserError(c *gin.Context, err error, action string) {
	if verr, ok := service.AsValidationError(err); ok {
		respondValidation(c, verr)
		return
	}
	// 账号在令牌有效期内被删除
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(c, http.StatusUnauthorized, msgUnauthenticated)
		return
	}
	a.serverError(c, err, action)
}
