package worker

import (
	"context"
	"errors"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/queue"

	"github.com/hibiken/asynq"
)

// ErrQueueDisabled 队列未启用时无法启动 worker
var ErrQueueDisabled = errors.New("queue disabled")

// Service 通知队列消费服务
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建消费服务并注册全部通知任务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrQueueDisabled
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{server: asynq.NewServer(queue.BuildServerConfig(cfg)), mux: mux}, nil
}

func (s *Service) Name() string { return "worker" }

// Start 阻塞直到 Stop 或 asynq 内部退出
func (s *Service) Start(context.Context) error {
	return s.server.Run(s.mux)
}

// Stop 等待在途任务结束
func (s *Service) Stop(context.Context) error {
	s.server.Shutdown()
	return nil
}
