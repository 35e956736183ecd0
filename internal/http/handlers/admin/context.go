package admin

import (
	handlershared "github.com/petshop-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// getOperatorID 当前操作人，后台与前台共用用户令牌
func getOperatorID(c *gin.Context) (uint, bool) {
	return handlershared.CurrentUserID(c)
}
