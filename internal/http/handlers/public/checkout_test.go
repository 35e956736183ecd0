package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/metrics"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/provider"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type checkoutFixture struct {
	db        *gorm.DB
	engine    *gin.Engine
	userID    uint
	addressID uint
	productID uint
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.AutoMigrateDB(db))
	prev := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = prev
		_ = sqlDB.Close()
	})

	user := &models.User{Username: "buyer", Email: "buyer@example.com", PasswordHash: "x", Status: constants.UserStatusActive, IsVerified: true}
	require.NoError(t, db.Create(user).Error)
	address := &models.Address{UserID: user.ID, FullName: "Buyer", Phone: "+70000000000", Street: "Main 1", City: "Moscow"}
	require.NoError(t, db.Create(address).Error)
	product := &models.Product{Name: "Cat food", Slug: "cat-food", Price: models.MustMoney("1000.00"), Stock: 5, IsActive: true}
	require.NoError(t, db.Create(product).Error)
	promo := &models.PromoCode{Code: "PET10", DiscountType: constants.DiscountTypePercent, DiscountValue: models.NewMoneyFromInt(10), MaxUses: 1, IsActive: true}
	require.NoError(t, db.Create(promo).Error)

	queueClient, err := queue.NewClient(nil)
	require.NoError(t, err)
	c := &provider.Container{
		Config:      &config.Config{},
		QueueClient: queueClient,
		ProductRepo: repository.NewProductRepository(db),
		CartRepo:    repository.NewCartRepository(db),
		AddressRepo: repository.NewAddressRepository(db),
		OrderRepo:   repository.NewOrderRepository(db),
	}
	c.PromoCodeRepo = repository.NewPromoCodeRepository(db)
	c.PromoLedger = service.NewPromoLedger(c.PromoCodeRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.CheckoutService = service.NewCheckoutService(
		c.CartRepo, c.ProductRepo, c.AddressRepo, c.OrderRepo,
		c.PromoLedger,
		cache.NewCheckoutStageStore(time.Minute),
		queueClient,
		metrics.NewCheckout(nil),
		service.CheckoutOptions{Currency: "RUB", EnforceStock: true, MaxCommitAttempts: 2},
	)

	h := New(c)
	engine := gin.New()
	authed := engine.Group("/api/v1", func(ctx *gin.Context) {
		ctx.Set("user_id", user.ID)
		ctx.Next()
	})
	authed.GET("/cart", h.GetCart)
	authed.POST("/cart/items", h.AddCartItem)
	authed.GET("/checkout/preview", h.PreviewCheckout)
	authed.POST("/checkout/promo", h.ApplyCheckoutPromo)
	authed.POST("/checkout/commit", h.CommitCheckout)

	return &checkoutFixture{db: db, engine: engine, userID: user.ID, addressID: address.ID, productID: product.ID}
}

func (f *checkoutFixture) do(t *testing.T, method, path string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCommitCheckoutWithPromoCreatesOrder(t *testing.T) {
	f := newCheckoutFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": f.productID, "quantity": 2})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = f.do(t, http.MethodGet, "/api/v1/checkout/preview?promo_code=pet10", nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var preview struct {
		Quote struct {
			Discount string `json:"discount"`
			Total    string `json:"total"`
		} `json:"quote"`
		PromoCode string `json:"promo_code"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &preview))
	assert.Equal(t, "PET10", preview.PromoCode)
	assert.Equal(t, "200.00", preview.Quote.Discount)
	assert.Equal(t, "1800.00", preview.Quote.Total)

	resp = f.do(t, http.MethodPost, "/api/v1/checkout/commit", gin.H{"address_id": f.addressID, "promo_code": "PET10"})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var result struct {
		Order struct {
			Total  string `json:"total"`
			Status string `json:"status"`
		} `json:"order"`
		PromoDropped       bool     `json:"promo_dropped"`
		NotificationQueued bool     `json:"notification_queued"`
		Notices            []string `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "1800.00", result.Order.Total)
	assert.Equal(t, constants.OrderStatusPending, result.Order.Status)
	assert.False(t, result.PromoDropped)
	assert.False(t, result.NotificationQueued)
	assert.Len(t, result.Notices, 1)

	var promo models.PromoCode
	require.NoError(t, f.db.Where("code = ?", "PET10").First(&promo).Error)
	assert.Equal(t, 1, promo.CurrentUses)

	var product models.Product
	require.NoError(t, f.db.First(&product, f.productID).Error)
	assert.Equal(t, 3, product.Stock)

	resp = f.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var cart struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	assert.Empty(t, cart.Items)
}

func TestApplyCheckoutPromoReportsReason(t *testing.T) {
	f := newCheckoutFixture(t)
	require.NoError(t, f.db.Model(&models.PromoCode{}).Where("code = ?", "PET10").Update("current_uses", 1).Error)

	resp := f.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": f.productID})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = f.do(t, http.MethodPost, "/api/v1/checkout/promo", gin.H{"code": "PET10"})
	assert.Equal(t, 422, resp.StatusCode)
	assert.Equal(t, "Promo code usage limit reached", resp.Msg)

	resp = f.do(t, http.MethodPost, "/api/v1/checkout/promo", gin.H{"code": "NOPE"})
	assert.Equal(t, 422, resp.StatusCode)
}

func TestCommitCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/checkout/commit", gin.H{"address_id": f.addressID})
	assert.Equal(t, 400, resp.StatusCode)

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}
