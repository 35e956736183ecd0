package admin

import (
	"time"

	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SetUserRolesRequest 设置用户角色请求
type SetUserRolesRequest struct {
	Roles []string `json:"roles"`
}

// ListUsers 后台用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := pageQuery(c)
	users, total, err := h.UserRoleService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	successWithPage(c, users, page, pageSize, total)
}

// ListRoles 可分配角色
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.UserRoleService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// GetUserAccess 用户角色与能力
func (h *Handler) GetUserAccess(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	access, err := h.UserRoleService.GetAccess(id)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, access)
}

// SetUserRoles 覆盖设置用户角色并写审计日志
func (h *Handler) SetUserRoles(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetUserRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	access, err := h.UserRoleService.SetUserRoles(c.Request.Context(), service.SetUserRolesInput{
		OperatorID: operatorID,
		TargetID:   id,
		Roles:      req.Roles,
		RequestID:  c.GetString("request_id"),
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, access)
}

// ListAuthzAuditLogs 角色变更审计日志
func (h *Handler) ListAuthzAuditLogs(c *gin.Context) {
	query, ok := bindQuery[struct {
		OperatorUserID uint   `form:"operator_user_id"`
		TargetUserID   uint   `form:"target_user_id"`
		Action         string `form:"action"`
	}](c)
	if !ok {
		return
	}
	page, pageSize := pageQuery(c)
	items, total, err := h.UserRoleService.ListAuditLogs(repository.AuthzAuditLogListFilter{
		Page:           page,
		PageSize:       pageSize,
		OperatorUserID: query.OperatorUserID,
		TargetUserID:   query.TargetUserID,
		Action:         query.Action,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	successWithPage(c, items, page, pageSize, total)
}

type loginLogQuery struct {
	UserID      uint       `form:"user_id"`
	Email       string     `form:"email"`
	Status      string     `form:"status"`
	CreatedFrom *time.Time `form:"created_from" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ListLoginLogs 登录审计日志
func (h *Handler) ListLoginLogs(c *gin.Context) {
	query, ok := bindQuery[loginLogQuery](c)
	if !ok {
		return
	}
	page, pageSize := pageQuery(c)
	items, total, err := h.UserLoginLogService.ListAdmin(repository.UserLoginLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      query.UserID,
		Email:       query.Email,
		Status:      query.Status,
		CreatedFrom: query.CreatedFrom,
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	successWithPage(c, items, page, pageSize, total)
}
