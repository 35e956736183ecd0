package public

import (
	handlershared "github.com/petshop-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// getUserID 当前登录用户，购物车、结算、订单均按此隔离
func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.CurrentUserID(c)
}
