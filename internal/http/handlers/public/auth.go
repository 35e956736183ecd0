package public

import (
	"errors"
	"time"

	"github.com/petshop-next/internal/constants"
	handlershared "github.com/petshop-next/internal/http/handlers/shared"
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserLogin 邮箱密码登录，成功与失败均记录登录日志
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, constants.LoginLogFailReasonInvalidEmail)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	session, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.recordUserLogin(c, req.Email, 0, constants.LoginLogStatusFailed, service.LoginFailReason(err))
		if errors.Is(err, service.ErrInvalidEmail) {
			respondError(c, response.CodeUnauthorized, "auth.invalid_credentials", nil)
			return
		}
		respondServiceError(c, err, "error.internal")
		return
	}

	h.recordUserLogin(c, session.User.Email, session.User.ID, constants.LoginLogStatusSuccess, "")
	response.Success(c, gin.H{
		"user":       session.User,
		"token":      session.Token,
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
	})
}

// GetCurrentUser 当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUser(uid)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, user)
}

func (h *Handler) recordUserLogin(c *gin.Context, email string, userID uint, status, failReason string) {
	if h.UserLoginLogService == nil {
		return
	}
	err := h.UserLoginLogService.Record(service.RecordUserLoginInput{
		UserID:     userID,
		Email:      email,
		Status:     status,
		FailReason: failReason,
		ClientIP:   c.ClientIP(),
		RequestID:  c.GetString("request_id"),
	})
	if err != nil {
		handlershared.RequestLog(c).Warnw("user_login_log_record_failed", "error", err)
	}
}
