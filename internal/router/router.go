package router

import (
	"strings"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	adminhandlers "github.com/petshop-next/internal/http/handlers/admin"
	publichandlers "github.com/petshop-next/internal/http/handlers/public"
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := cache.Client()
	loginRule := NewRateLimitRule(cache.Key("rate:login"), cfg.RateLimit.Login)
	newsletterRule := NewRateLimitRule(cache.Key("rate:newsletter"), cfg.RateLimit.Newsletter)
	checkoutRule := NewRateLimitRule(cache.Key("rate:checkout"), cfg.RateLimit.Checkout)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		status := "ok"
		if models.PingDB(ctx.Request.Context()) != nil {
			status = "degraded"
		}
		response.Success(ctx, gin.H{"status": status})
	})
	if c.MetricsRegistry != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(c.MetricsRegistry, promhttp.HandlerOpts{})))
	}

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:ref", publicHandler.GetProduct)
			public.GET("/products/:ref/reviews", publicHandler.ListProductReviews)
			public.POST("/newsletter/subscribe",
				RateLimitMiddleware(redisClient, newsletterRule, KeyByIPAndJSONField("email")),
				publicHandler.SubscribeNewsletter,
			)
			public.POST("/newsletter/unsubscribe", publicHandler.UnsubscribeNewsletter)
		}

		apiV1.POST("/auth/login",
			RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")),
			publicHandler.UserLogin,
		)

		authed := apiV1.Group("")
		authed.Use(UserJWTAuthMiddleware(c.UserAuthService))
		{
			authed.GET("/me", publicHandler.GetCurrentUser)

			authed.GET("/cart", publicHandler.GetCart)
			authed.POST("/cart/items", publicHandler.AddCartItem)
			authed.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
			authed.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)

			authed.GET("/addresses", publicHandler.ListAddresses)
			authed.POST("/addresses", publicHandler.CreateAddress)
			authed.PUT("/addresses/:id", publicHandler.UpdateAddress)
			authed.DELETE("/addresses/:id", publicHandler.DeleteAddress)
			authed.POST("/addresses/:id/default", publicHandler.SetDefaultAddress)

			authed.GET("/checkout/preview", publicHandler.PreviewCheckout)
			authed.POST("/checkout/promo", publicHandler.ApplyCheckoutPromo)
			authed.DELETE("/checkout/promo", publicHandler.ClearCheckoutPromo)
			authed.POST("/checkout",
				RateLimitMiddleware(redisClient, checkoutRule, KeyByUser),
				publicHandler.CommitCheckout,
			)

			authed.GET("/orders", publicHandler.ListOrders)
			authed.GET("/orders/:id", publicHandler.GetOrder)
			authed.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			authed.POST("/orders/:id/return", publicHandler.RequestOrderReturn)

			authed.POST("/products/:ref/reviews", publicHandler.CreateProductReview)
		}

		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(c.UserAuthService))
		{
			orders := admin.Group("/orders", RequireCapability(c.AuthzService, constants.CapabilityManageOrders))
			orders.GET("", adminHandler.ListOrders)
			orders.GET("/:id", adminHandler.GetOrder)
			orders.POST("/:id/advance", adminHandler.AdvanceOrder)

			products := admin.Group("/products", RequireCapability(c.AuthzService, constants.CapabilityManageOrders))
			products.GET("", adminHandler.ListProducts)
			products.POST("", adminHandler.CreateProduct)

			promos := admin.Group("/promo-codes", RequireCapability(c.AuthzService, constants.CapabilityManagePromoCodes))
			promos.GET("", adminHandler.ListPromoCodes)
			promos.POST("", adminHandler.CreatePromoCode)
			promos.GET("/:id", adminHandler.GetPromoCode)
			promos.PUT("/:id", adminHandler.UpdatePromoCode)
			promos.DELETE("/:id", adminHandler.DeletePromoCode)

			campaigns := admin.Group("/campaigns", RequireCapability(c.AuthzService, constants.CapabilitySendMassEmails))
			campaigns.GET("", adminHandler.ListCampaigns)
			campaigns.POST("", adminHandler.SendCampaign)

			subscribers := admin.Group("/subscribers", RequireCapability(c.AuthzService, constants.CapabilitySendMassEmails))
			subscribers.GET("", adminHandler.ListSubscribers)
			subscribers.DELETE("/:id", adminHandler.DeleteSubscriber)

			reviews := admin.Group("/reviews", RequireCapability(c.AuthzService, constants.CapabilityManageReviews))
			reviews.GET("", adminHandler.ListReviews)
			reviews.POST("/:id/approve", adminHandler.ApproveReview)
			reviews.DELETE("/:id", adminHandler.DeleteReview)

			admin.GET("/dashboard/overview",
				RequireCapability(c.AuthzService, constants.CapabilityManageOrders),
				adminHandler.GetDashboardOverview,
			)

			users := admin.Group("", RequireCapability(c.AuthzService, constants.CapabilityManageUsers))
			users.GET("/users", adminHandler.ListUsers)
			users.GET("/users/:id/access", adminHandler.GetUserAccess)
			users.PUT("/users/:id/roles", adminHandler.SetUserRoles)
			users.GET("/roles", adminHandler.ListRoles)
			users.GET("/authz/audit-logs", adminHandler.ListAuthzAuditLogs)
			users.GET("/login-logs", adminHandler.ListLoginLogs)
		}
	}

	return r
}
