package queue

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 高优先级队列
	CriticalQueue = constants.QueueCritical
	// BulkQueue 群发队列
	BulkQueue = constants.QueueBulk

	defaultMaxRetry    = 5
	defaultConcurrency = 10
)

// 任务类型到队列的路由；未列出的类型进入默认队列
var taskQueues = map[string]string{
	TaskOrderConfirmation: CriticalQueue,
	TaskCampaignEmail:     BulkQueue,
}

// Client 队列客户端封装，未启用时所有入队都是空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

func (c *Client) submit(build func() (*asynq.Task, error), opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := build()
	if err != nil {
		return err
	}
	queueName, ok := taskQueues[task.Type()]
	if !ok {
		queueName = DefaultQueue
	}
	opts = append([]asynq.Option{asynq.Queue(queueName), asynq.MaxRetry(defaultMaxRetry)}, opts...)
	_, err = c.client.Enqueue(task, opts...)
	return err
}

// EnqueueOrderConfirmation 推送下单确认邮件任务，同一订单只入队一次
func (c *Client) EnqueueOrderConfirmation(payload OrderConfirmationPayload) error {
	return c.submit(
		func() (*asynq.Task, error) { return NewOrderConfirmationTask(payload) },
		asynq.TaskID("order-confirmation-"+strconv.FormatUint(uint64(payload.OrderID), 10)),
		asynq.Retention(24*time.Hour),
	)
}

// EnqueueOrderStatusEmail 推送订单状态邮件任务
func (c *Client) EnqueueOrderStatusEmail(payload OrderStatusEmailPayload) error {
	return c.submit(func() (*asynq.Task, error) { return NewOrderStatusEmailTask(payload) })
}

// EnqueuePromoCodeEmail 推送优惠码邮件任务
func (c *Client) EnqueuePromoCodeEmail(payload PromoCodeEmailPayload) error {
	return c.submit(func() (*asynq.Task, error) { return NewPromoCodeEmailTask(payload) })
}

// EnqueueCampaignEmail 推送群发邮件任务
func (c *Client) EnqueueCampaignEmail(payload CampaignEmailPayload) error {
	return c.submit(func() (*asynq.Task, error) { return NewCampaignEmailTask(payload) })
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{CriticalQueue: 5, DefaultQueue: 3, BulkQueue: 1},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host, port := strings.TrimSpace(cfg.Host), 6379
	if host == "" {
		host = "127.0.0.1"
	}
	if cfg.Port > 0 {
		port = cfg.Port
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
