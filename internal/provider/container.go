package provider

import (
	"time"

	"github.com/petshop-next/internal/authz"
	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/metrics"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container 依赖注入容器
type Container struct {
	Config          *config.Config
	QueueClient     *queue.Client
	MetricsRegistry *prometheus.Registry
	CheckoutMetrics *metrics.Checkout

	// Repositories
	UserRepo          repository.UserRepository
	AddressRepo       repository.AddressRepository
	ProductRepo       repository.ProductRepository
	CartRepo          repository.CartRepository
	PromoCodeRepo     repository.PromoCodeRepository
	OrderRepo         repository.OrderRepository
	SubscriberRepo    repository.SubscriberRepository
	CampaignRepo      repository.CampaignRepository
	ReviewRepo        repository.ReviewRepository
	UserLoginLogRepo  repository.UserLoginLogRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository
	DashboardRepo     repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	UserAuthService     *service.UserAuthService
	UserLoginLogService *service.UserLoginLogService
	EmailService        *service.EmailService
	ProductService      *service.ProductService
	PromoLedger         *service.PromoLedger
	CartService         *service.CartService
	AddressService      *service.AddressService
	CheckoutService     *service.CheckoutService
	OrderLifecycle      *service.OrderLifecycle
	OrderQueryService   *service.OrderQueryService
	PromoAdminService   *service.PromoAdminService
	NewsletterService   *service.NewsletterService
	CampaignService     *service.CampaignService
	ReviewService       *service.ReviewService
	UserRoleService     *service.UserRoleService
	DashboardService    *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 队列未启用时返回空实现，入队即为空操作
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initMetrics()

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initMetrics() {
	if !c.Config.Metrics.Enabled {
		c.CheckoutMetrics = metrics.NewCheckout(nil)
		return
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.MetricsRegistry = registry
	c.CheckoutMetrics = metrics.NewCheckout(registry)
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.PromoCodeRepo = repository.NewPromoCodeRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.SubscriberRepo = repository.NewSubscriberRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	shop := c.Config.Shop
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.PromoLedger = service.NewPromoLedger(c.PromoCodeRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo, c.OrderRepo)
	c.CheckoutService = service.NewCheckoutService(
		c.CartRepo,
		c.ProductRepo,
		c.AddressRepo,
		c.OrderRepo,
		c.PromoLedger,
		cache.NewCheckoutStageStore(time.Duration(shop.Checkout.StageTTLSeconds)*time.Second),
		c.QueueClient,
		c.CheckoutMetrics,
		service.CheckoutOptions{
			Currency: shop.Currency,
			Policy: service.PricingPolicy{
				ShippingCost: shop.ShippingCostDecimal(),
				TaxRate:      shop.TaxRateDecimal(),
			},
			EnforceStock:      shop.EnforceStock,
			MaxCommitAttempts: shop.Checkout.MaxCommitAttempts,
		},
	)
	c.OrderLifecycle = service.NewOrderLifecycle(c.OrderRepo, c.QueueClient)
	c.OrderQueryService = service.NewOrderQueryService(c.OrderRepo)
	c.PromoAdminService = service.NewPromoAdminService(c.PromoCodeRepo)
	c.NewsletterService = service.NewNewsletterService(shop.Newsletter, c.SubscriberRepo, c.PromoCodeRepo, c.QueueClient)
	c.CampaignService = service.NewCampaignService(c.CampaignRepo, c.PromoCodeRepo, c.UserRepo, c.SubscriberRepo, c.QueueClient, c.CheckoutMetrics)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo, c.OrderRepo)
	c.UserRoleService = service.NewUserRoleService(c.UserRepo, c.AuthzService, c.AuthzAuditLogRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
	if err := models.CloseDB(); err != nil {
		logger.Warnw("provider_close_database_failed", "error", err)
	}
}
