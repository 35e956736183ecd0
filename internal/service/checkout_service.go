package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/metrics"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"

	"gorm.io/gorm"
)

// CheckoutStager 结算暂存，只作为提交时需要重新校验的提示
type CheckoutStager interface {
	Put(ctx context.Context, userID uint, stage cache.CheckoutStage) error
	Get(ctx context.Context, userID uint) (*cache.CheckoutStage, error)
	Clear(ctx context.Context, userID uint) error
}

// CheckoutOptions 结算配置
type CheckoutOptions struct {
	Currency          string
	Policy            PricingPolicy
	EnforceStock      bool
	MaxCommitAttempts int
}

// CheckoutService 购物车到订单的结算服务
type CheckoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository
	orderRepo   repository.OrderRepository
	ledger      *PromoLedger
	stager      CheckoutStager
	notifier    NotificationSink
	metrics     *metrics.Checkout
	opts        CheckoutOptions

	newOrderNumber func() (string, error)
	now            func() time.Time
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	orderRepo repository.OrderRepository,
	ledger *PromoLedger,
	stager CheckoutStager,
	notifier NotificationSink,
	checkoutMetrics *metrics.Checkout,
	opts CheckoutOptions,
) *CheckoutService {
	if opts.MaxCommitAttempts <= 0 {
		opts.MaxCommitAttempts = 1
	}
	if strings.TrimSpace(opts.Currency) == "" {
		opts.Currency = "RUB"
	}
	return &CheckoutService{
		cartRepo:       cartRepo,
		productRepo:    productRepo,
		addressRepo:    addressRepo,
		orderRepo:      orderRepo,
		ledger:         ledger,
		stager:         stager,
		notifier:       notifier,
		metrics:        checkoutMetrics,
		opts:           opts,
		newOrderNumber: generateOrderNumber,
		now:            time.Now,
	}
}

// CheckoutPreview 结算预览
type CheckoutPreview struct {
	Quote         *Quote `json:"quote"`
	PromoCode     string `json:"promo_code,omitempty"`
	PromoRejected string `json:"promo_rejected,omitempty"`
}

// CheckoutInput 提交订单输入
type CheckoutInput struct {
	UserID    uint
	AddressID uint
	PromoCode string
	Notes     string
}

// CheckoutResult 提交订单结果
type CheckoutResult struct {
	Order              *models.Order `json:"order"`
	PromoDropped       bool          `json:"promo_dropped"`
	PromoDropReason    string        `json:"promo_drop_reason,omitempty"`
	NotificationQueued bool          `json:"notification_queued"`
}

// errPromoRaceLost 核销时名额已被并发事务占用
var errPromoRaceLost = errors.New("promo redemption lost race")

// Preview 按当前价格生成报价；code 为空时沿用暂存的优惠码
func (s *CheckoutService) Preview(ctx context.Context, userID uint, code string) (*CheckoutPreview, error) {
	lines, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	pricingLines, err := buildPricingLines(lines, nil)
	if err != nil {
		return nil, err
	}

	code = NormalizePromoCode(code)
	if code == "" {
		code = s.stagedPromoCode(ctx, userID)
	}

	preview := &CheckoutPreview{}
	var promo *models.PromoCode
	if code != "" {
		promo, err = s.ledger.Validate(code, s.now())
		if err != nil {
			reason := PromoRejectReason(err)
			if reason == "" {
				return nil, err
			}
			preview.PromoRejected = reason
			promo = nil
			s.clearStage(ctx, userID)
		}
	}

	quote, err := Price(pricingLines, s.opts.Policy, promo)
	if err != nil {
		return nil, err
	}
	preview.Quote = quote
	if promo != nil {
		preview.PromoCode = promo.Code
		s.putStage(ctx, userID, quote)
	}
	return preview, nil
}

// ApplyPromo 校验并暂存优惠码，无效时直接返回校验错误
func (s *CheckoutService) ApplyPromo(ctx context.Context, userID uint, code string) (*CheckoutPreview, error) {
	if _, err := s.ledger.Validate(code, s.now()); err != nil {
		return nil, err
	}
	return s.Preview(ctx, userID, code)
}

// ClearPromo 移除暂存的优惠码
func (s *CheckoutService) ClearPromo(ctx context.Context, userID uint) {
	s.clearStage(ctx, userID)
}

// Commit 在单个事务内把购物车转为订单
func (s *CheckoutService) Commit(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	started := s.now()
	log := logger.FromContext(ctx)

	code := NormalizePromoCode(input.PromoCode)
	if code == "" {
		code = s.stagedPromoCode(ctx, input.UserID)
	}

	var (
		result    *CheckoutResult
		lastErr   error
		skipPromo bool
		raceLost  bool
	)
	for attempt := 1; attempt <= s.opts.MaxCommitAttempts; attempt++ {
		var err error
		result, err = s.commitOnce(input, code, skipPromo)
		if err == nil {
			break
		}
		if errors.Is(err, errPromoRaceLost) && !skipPromo {
			// 名额被并发占用：放弃折扣重试，不占用重试次数
			skipPromo = true
			raceLost = true
			attempt--
			s.metrics.IncRetry()
			continue
		}
		if outcome, ok := checkoutRejectOutcome(err); ok {
			s.metrics.ObserveCommit(outcome, s.now().Sub(started))
			return nil, err
		}
		lastErr = err
		result = nil
		s.metrics.IncRetry()
		log.Warnw("checkout_commit_attempt_failed",
			"user_id", input.UserID,
			"attempt", attempt,
			"error", err,
		)
	}
	if result == nil {
		s.metrics.ObserveCommit(metrics.OutcomeFailed, s.now().Sub(started))
		log.Errorw("checkout_commit_failed", "user_id", input.UserID, "error", lastErr)
		return nil, fmt.Errorf("%w: %v", ErrCheckoutCommitFailed, lastErr)
	}

	if raceLost {
		result.PromoDropped = true
		result.PromoDropReason = PromoReasonUsageExceeded
	}
	if result.PromoDropped {
		s.metrics.IncPromoDropped(result.PromoDropReason)
		log.Infow("checkout_promo_dropped",
			"user_id", input.UserID,
			"order_id", result.Order.ID,
			"promo_code", code,
			"reason", result.PromoDropReason,
		)
	} else if result.Order.PromoCodeID != nil {
		s.metrics.IncRedemption()
	}
	s.metrics.ObserveCommit(metrics.OutcomeCommitted, s.now().Sub(started))

	result.NotificationQueued = s.enqueueConfirmation(ctx, result.Order)
	s.clearStage(ctx, input.UserID)
	return result, nil
}

func (s *CheckoutService) commitOnce(input CheckoutInput, code string, skipPromo bool) (*CheckoutResult, error) {
	orderNumber, err := s.newOrderNumber()
	if err != nil {
		return nil, err
	}
	now := s.now()
	result := &CheckoutResult{}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		addressRepo := s.addressRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		address, err := addressRepo.GetByIDAndUser(input.AddressID, input.UserID)
		if err != nil {
			return err
		}
		if address == nil {
			return ErrAddressNotOwned
		}

		lines, err := cartRepo.ListByUserForUpdate(input.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}
		productIDs := make([]uint, 0, len(lines))
		for _, line := range lines {
			productIDs = append(productIDs, line.ProductID)
		}
		products, err := productRepo.ListByIDs(productIDs)
		if err != nil {
			return err
		}
		productMap := make(map[uint]*models.Product, len(products))
		for i := range products {
			productMap[products[i].ID] = &products[i]
		}
		pricingLines, err := buildPricingLines(lines, productMap)
		if err != nil {
			return err
		}

		var promo *models.PromoCode
		if code != "" && !skipPromo {
			promo, err = s.ledger.ValidateTx(tx, code, now)
			if err != nil {
				reason := PromoRejectReason(err)
				if reason == "" {
					return err
				}
				result.PromoDropped = true
				result.PromoDropReason = reason
				promo = nil
			}
		}

		quote, err := Price(pricingLines, s.opts.Policy, promo)
		if err != nil {
			return err
		}

		if s.opts.EnforceStock {
			for _, line := range pricingLines {
				affected, err := productRepo.DecrementStock(line.ProductID, line.Quantity)
				if err != nil {
					return err
				}
				if affected == 0 {
					return fmt.Errorf("%w: %s", ErrInsufficientStock, line.Name)
				}
			}
		}

		order := &models.Order{
			OrderNumber:     orderNumber,
			UserID:          input.UserID,
			AddressID:       address.ID,
			AddressSnapshot: address.Snapshot(),
			Status:          constants.OrderStatusPending,
			Currency:        s.opts.Currency,
			Subtotal:        quote.Subtotal,
			ShippingCost:    quote.ShippingCost,
			Tax:             quote.Tax,
			DiscountAmount:  quote.Discount,
			Total:           quote.Total,
			PromoCodeID:     quote.PromoCodeID,
			Notes:           strings.TrimSpace(input.Notes),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		items := make([]models.OrderItem, 0, len(quote.Lines))
		for _, line := range quote.Lines {
			items = append(items, models.OrderItem{
				ProductID:   line.ProductID,
				ProductName: line.Name,
				UnitPrice:   line.UnitPrice,
				Quantity:    line.Quantity,
				Subtotal:    line.Subtotal,
				CreatedAt:   now,
			})
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}

		if promo != nil {
			if err := s.ledger.Redeem(tx, promo.ID, order.ID); err != nil {
				if errors.Is(err, ErrPromoUsageExceeded) {
					return errPromoRaceLost
				}
				return err
			}
		}

		// 只删除本事务读取并下单的行，之后加入的行保留
		lineIDs := make([]uint, 0, len(lines))
		for _, line := range lines {
			lineIDs = append(lineIDs, line.ID)
		}
		if _, err := cartRepo.DeleteByIDs(input.UserID, lineIDs); err != nil {
			return err
		}
		result.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// buildPricingLines 以商品当前价格生成计价行；productMap 为 nil 时使用购物车预加载的商品
func buildPricingLines(lines []models.CartItem, productMap map[uint]*models.Product) ([]PricingLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	result := make([]PricingLine, 0, len(lines))
	for _, line := range lines {
		product := line.Product
		if productMap != nil {
			product = productMap[line.ProductID]
		}
		if product == nil || !product.IsActive {
			return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, line.ProductID)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidCartLine, line.ProductID)
		}
		result = append(result, PricingLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price.Decimal,
			Quantity:  line.Quantity,
		})
	}
	return result, nil
}

// checkoutRejectOutcome 识别不应重试的业务错误
func checkoutRejectOutcome(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return metrics.OutcomeEmptyCart, true
	case errors.Is(err, ErrAddressNotOwned):
		return metrics.OutcomeAddressNotOwned, true
	case errors.Is(err, ErrInsufficientStock):
		return metrics.OutcomeInsufficientStock, true
	case errors.Is(err, ErrProductUnavailable), errors.Is(err, ErrInvalidCartLine):
		return metrics.OutcomeFailed, true
	}
	return "", false
}

func (s *CheckoutService) enqueueConfirmation(ctx context.Context, order *models.Order) bool {
	if order == nil || !sinkEnabled(s.notifier) {
		return false
	}
	if err := s.notifier.EnqueueOrderConfirmation(queue.OrderConfirmationPayload{OrderID: order.ID}); err != nil {
		s.metrics.IncNotificationFailure(constants.TaskOrderConfirmation)
		logger.FromContext(ctx).Warnw("order_enqueue_confirmation_failed",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"error", err,
		)
		return false
	}
	return true
}

func (s *CheckoutService) stagedPromoCode(ctx context.Context, userID uint) string {
	if s.stager == nil {
		return ""
	}
	stage, err := s.stager.Get(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Warnw("checkout_stage_read_failed", "user_id", userID, "error", err)
		return ""
	}
	if stage == nil {
		return ""
	}
	return NormalizePromoCode(stage.PromoCode)
}

func (s *CheckoutService) putStage(ctx context.Context, userID uint, quote *Quote) {
	if s.stager == nil || quote == nil {
		return
	}
	stage := cache.CheckoutStage{
		PromoCode:   quote.PromoCode,
		Discount:    quote.Discount.String(),
		Total:       quote.Total.String(),
		PreviewedAt: s.now().Unix(),
	}
	if err := s.stager.Put(ctx, userID, stage); err != nil {
		logger.FromContext(ctx).Warnw("checkout_stage_write_failed", "user_id", userID, "error", err)
	}
}

func (s *CheckoutService) clearStage(ctx context.Context, userID uint) {
	if s.stager == nil {
		return
	}
	if err := s.stager.Clear(ctx, userID); err != nil {
		logger.FromContext(ctx).Warnw("checkout_stage_clear_failed", "user_id", userID, "error", err)
	}
}

// generateOrderNumber 生成 16 位大写十六进制订单号
func generateOrderNumber() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
