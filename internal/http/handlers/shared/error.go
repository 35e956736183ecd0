package shared

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/i18n"
	"github.com/petshop-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 请求级日志，优先取中间件注入 context 的实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil || c.Request == nil {
		return logger.S()
	}
	return logger.FromContext(c.Request.Context())
}

// RespondError 按请求语言输出错误文案；服务端故障记 error，其余带原始错误的记 warn
func RespondError(c *gin.Context, code int, key string, err error) {
	appErr := response.WrapError(code, i18n.T(i18n.ResolveLocale(c), key), err)
	if err != nil {
		log := RequestLog(c)
		fields := []interface{}{"code", appErr.Code, "key", key, "error", err}
		if appErr.ServerSide() {
			log.Errorw("handler_error", fields...)
		} else {
			log.Warnw("handler_rejected", fields...)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}
