package shared

import (
	"github.com/petshop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CurrentUserID 读取鉴权中间件写入的 user_id，缺失或非法时直接写出错误响应
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	var id uint
	switch v := value.(type) {
	case uint:
		id = v
	case int:
		if v > 0 {
			id = uint(v)
		}
	case float64:
		if v > 0 {
			id = uint(v)
		}
	default:
		RespondError(c, response.CodeInternal, "error.user_id_type_invalid", nil)
		return 0, false
	}
	if id == 0 {
		RespondError(c, response.CodeUnauthorized, "error.user_id_invalid", nil)
		return 0, false
	}
	return id, true
}
