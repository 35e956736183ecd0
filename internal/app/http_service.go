package app

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// HTTPService 把 gin 引擎包装为可被 Runner 管理的服务
type HTTPService struct {
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务
func NewHTTPService(addr string, handler http.Handler) *HTTPService {
	return &HTTPService{server: &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *HTTPService) Name() string { return "http" }

// Start 阻塞监听，正常关闭不视为错误
func (s *HTTPService) Start(context.Context) error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop 等待在途请求结束，超时由 ctx 控制
func (s *HTTPService) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
