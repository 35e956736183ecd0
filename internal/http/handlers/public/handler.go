package public

import "github.com/petshop-next/internal/provider"

// Handler 店面接口：商品浏览、购物车、结算、订单、订阅
type Handler struct {
	*provider.Container
}

// New 创建店面处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
