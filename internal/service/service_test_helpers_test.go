package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/queue"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openServiceTestDB 打开独立的内存数据库并替换全局 models.DB
func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	prev := models.DB
	models.DB = db
	t.Cleanup(func() {
		models.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: "x",
		Status:       constants.UserStatusActive,
		IsVerified:   true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func seedAddress(t *testing.T, db *gorm.DB, userID uint) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:     userID,
		FullName:   "Ivan Petrov",
		Phone:      "+79990000000",
		Street:     "Lenina 1",
		City:       "Moscow",
		PostalCode: "101000",
		Country:    "Russia",
	}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}

func seedProduct(t *testing.T, db *gorm.DB, slug, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     "Product " + slug,
		Slug:     slug,
		Price:    models.MustMoney(price),
		Stock:    stock,
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func seedCartLine(t *testing.T, db *gorm.DB, userID, productID uint, quantity int) {
	t.Helper()
	line := &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := db.Create(line).Error; err != nil {
		t.Fatalf("create cart line failed: %v", err)
	}
}

func seedPromo(t *testing.T, db *gorm.DB, code, kind, value string, maxUses int, validUntil *time.Time) *models.PromoCode {
	t.Helper()
	promo := &models.PromoCode{
		Code:          code,
		DiscountType:  kind,
		DiscountValue: models.MustMoney(value),
		MaxUses:       maxUses,
		ValidUntil:    validUntil,
		IsActive:      true,
	}
	if err := db.Create(promo).Error; err != nil {
		t.Fatalf("create promo failed: %v", err)
	}
	return promo
}

// fakeSink 记录入队调用的通知出口
type fakeSink struct {
	mu            sync.Mutex
	disabled      bool
	failAll       bool
	confirmations []queue.OrderConfirmationPayload
	statusEmails  []queue.OrderStatusEmailPayload
	promoEmails   []queue.PromoCodeEmailPayload
	campaignMails []queue.CampaignEmailPayload
}

var errFakeSinkDown = errors.New("queue unavailable")

func (s *fakeSink) Enabled() bool { return !s.disabled }

func (s *fakeSink) EnqueueOrderConfirmation(payload queue.OrderConfirmationPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errFakeSinkDown
	}
	s.confirmations = append(s.confirmations, payload)
	return nil
}

func (s *fakeSink) EnqueueOrderStatusEmail(payload queue.OrderStatusEmailPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errFakeSinkDown
	}
	s.statusEmails = append(s.statusEmails, payload)
	return nil
}

func (s *fakeSink) EnqueuePromoCodeEmail(payload queue.PromoCodeEmailPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errFakeSinkDown
	}
	s.promoEmails = append(s.promoEmails, payload)
	return nil
}

func (s *fakeSink) EnqueueCampaignEmail(payload queue.CampaignEmailPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return errFakeSinkDown
	}
	s.campaignMails = append(s.campaignMails, payload)
	return nil
}

// memoryStager 内存版结算暂存
type memoryStager struct {
	mu     sync.Mutex
	stages map[uint]cache.CheckoutStage
}

func newMemoryStager() *memoryStager {
	return &memoryStager{stages: map[uint]cache.CheckoutStage{}}
}

func (m *memoryStager) Put(_ context.Context, userID uint, stage cache.CheckoutStage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[userID] = stage
	return nil
}

func (m *memoryStager) Get(_ context.Context, userID uint) (*cache.CheckoutStage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stage, ok := m.stages[userID]
	if !ok {
		return nil, nil
	}
	return &stage, nil
}

func (m *memoryStager) Clear(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stages, userID)
	return nil
}
