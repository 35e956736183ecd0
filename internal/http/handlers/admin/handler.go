package admin

import "github.com/petshop-next/internal/provider"

// Handler 运营后台接口，路由层已按能力分组鉴权
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
