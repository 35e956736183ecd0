package router

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/i18n"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// TokenParser 解析用户令牌
type TokenParser interface {
	ParseUserJWT(tokenString string) (*service.UserJWTClaims, error)
	ResolveAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error)
}

// CapabilityChecker 判定用户是否具备某项能力
type CapabilityChecker interface {
	Can(userID uint, capability string) (bool, error)
}

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Content-Type", "Accept-Language", "Authorization", requestIDHeader}
)

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// CORSMiddleware 跨域中间件，预检请求直接以 204 结束
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	origins := orDefault(cfg.AllowedOrigins, []string{"*"})
	static := map[string]string{
		"Access-Control-Allow-Methods": strings.Join(orDefault(cfg.AllowedMethods, defaultCORSMethods), ", "),
		"Access-Control-Allow-Headers": strings.Join(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), ", "),
	}
	if cfg.AllowCredentials {
		static["Access-Control-Allow-Credentials"] = "true"
	}
	if cfg.MaxAge > 0 {
		static["Access-Control-Max-Age"] = strconv.Itoa(cfg.MaxAge)
	}

	return func(c *gin.Context) {
		header := c.Writer.Header()
		if allowed := resolveAllowedOrigin(c.GetHeader("Origin"), origins, cfg.AllowCredentials); allowed != "" {
			header.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				header.Add("Vary", "Origin")
			}
		}
		for name, value := range static {
			header.Set(name, value)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// resolveAllowedOrigin 通配符在携带凭证时回显来源，否则返回 *
func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if slices.Contains(allowedOrigins, "*") {
		if allowCredentials && origin != "" {
			return origin
		}
		return "*"
	}
	if origin != "" && slices.ContainsFunc(allowedOrigins, func(allowed string) bool {
		return strings.EqualFold(allowed, origin)
	}) {
		return origin
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件，同时把带 request_id 的日志实例放入请求 context
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		withRequestLogger(c, logger.SW(requestIDKey, requestID))
		c.Next()
	}
}

func withRequestLogger(c *gin.Context, log *zap.SugaredLogger) {
	c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			sugar.Errorw("request", append(fields, "errors", c.Errors.String())...)
			return
		}
		sugar.Infow("request", fields...)
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}

func abortForbidden(c *gin.Context) {
	response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
	c.Abort()
}

// bearerToken 取出 Authorization 头中的令牌；头缺失时 present 为 false
func bearerToken(c *gin.Context) (token string, present bool) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return "", false
	}
	scheme, rest, ok := strings.Cut(raw, " ")
	if !ok || scheme != "Bearer" {
		return "", true
	}
	return strings.TrimSpace(rest), true
}

// UserJWTAuthMiddleware 用户令牌鉴权中间件，账号状态取自鉴权快照
func UserJWTAuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		switch {
		case parser == nil:
			abortUnauthorized(c, "error.token_invalid")
			return
		case !present:
			abortUnauthorized(c, "error.unauthorized")
			return
		case token == "":
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		claims, err := parser.ParseUserJWT(token)
		if err != nil || claims == nil || claims.UserID == 0 {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		state, err := parser.ResolveAuthState(c.Request.Context(), claims.UserID)
		if err != nil || state == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		if !isActiveUserStatus(state.Status) {
			abortUnauthorized(c, "auth.user_disabled")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		withRequestLogger(c, logger.FromContext(c.Request.Context()).With("user_id", claims.UserID))
		c.Next()
	}
}

// RequireCapability 要求当前用户具备指定能力
func RequireCapability(checker CapabilityChecker, capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if checker == nil {
			logger.Errorw("authz_checker_unavailable", "capability", capability)
			abortForbidden(c)
			return
		}

		allowed, err := checker.Can(userID, capability)
		log := logger.FromContext(c.Request.Context())
		switch {
		case err != nil:
			log.Errorw("authz_enforce_failed", "capability", capability, "path", c.Request.URL.Path, "error", err)
			abortForbidden(c)
		case !allowed:
			log.Warnw("authz_permission_denied", "capability", capability, "method", c.Request.Method, "path", c.Request.URL.Path)
			abortForbidden(c)
		default:
			c.Next()
		}
	}
}

func isActiveUserStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), constants.UserStatusActive)
}
