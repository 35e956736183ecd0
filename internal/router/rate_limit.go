package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/i18n"
	"github.com/petshop-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求提取限流维度，返回空串时按 IP 计数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
}

// NewRateLimitRule 由配置生成限流规则
func NewRateLimitRule(prefix string, cfg config.RateLimitRuleConfig) RateLimitRule {
	return RateLimitRule{Prefix: prefix, WindowSeconds: cfg.WindowSeconds, MaxRequests: cfg.MaxRequests}
}

func (r RateLimitRule) disabled() bool {
	return r.WindowSeconds <= 0 || r.MaxRequests <= 0
}

func (r RateLimitRule) key(raw string) string {
	if r.Prefix == "" {
		return raw
	}
	return r.Prefix + ":" + raw
}

// 首次命中时设置过期，返回 {计数, 剩余秒数}
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("TTL", KEYS[1])}
`)

// RateLimitMiddleware 基于 Redis 的固定窗口限流；未配置 Redis 或规则为零时放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.disabled() {
			c.Next()
			return
		}
		raw := ""
		if keyFunc != nil {
			raw = strings.TrimSpace(keyFunc(c))
		}
		if raw == "" {
			raw = c.ClientIP()
		}
		key := rule.key(raw)

		values, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, rule.WindowSeconds).Int64Slice()
		if err != nil || len(values) < 2 {
			logger.FromContext(c.Request.Context()).Warnw("rate_limit_unavailable", "key", key, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		count, ttl := values[0], values[1]
		if count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}
		wait := ttl
		if wait < 1 {
			wait = int64(rule.WindowSeconds)
		}
		response.Error(c, response.CodeTooManyRequests, i18n.Tf(i18n.ResolveLocale(c), "error.rate_limited", wait))
		c.Abort()
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByUser 已登录接口按用户限流，未登录时回退到 IP
func KeyByUser(c *gin.Context) string {
	if uid := c.GetUint("user_id"); uid > 0 {
		return fmt.Sprintf("u%d", uid)
	}
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 请求体中的字段（小写）与 IP 组合限流，读取后恢复请求体
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONString(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

func peekJSONString(c *gin.Context, field string) string {
	if c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	var text string
	if json.Unmarshal(payload[field], &text) != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
