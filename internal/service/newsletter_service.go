package service

import (
	"context"
	"time"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"

	"gorm.io/gorm"
)

// NewsletterService 邮件订阅服务
type NewsletterService struct {
	cfg            config.NewsletterConfig
	subscriberRepo repository.SubscriberRepository
	promoRepo      repository.PromoCodeRepository
	notifier       NotificationSink
	now            func() time.Time
}

// NewNewsletterService 创建订阅服务
func NewNewsletterService(cfg config.NewsletterConfig, subscriberRepo repository.SubscriberRepository, promoRepo repository.PromoCodeRepository, notifier NotificationSink) *NewsletterService {
	return &NewsletterService{
		cfg:            cfg,
		subscriberRepo: subscriberRepo,
		promoRepo:      promoRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

// SubscribeResult 订阅结果
type SubscribeResult struct {
	Subscriber  *models.Subscriber `json:"subscriber"`
	PromoCode   *models.PromoCode  `json:"promo_code,omitempty"`
	EmailQueued bool               `json:"email_queued"`
}

// Subscribe 订阅或重新订阅，确保欢迎优惠码存在并异步发送
func (s *NewsletterService) Subscribe(ctx context.Context, email, locale string) (*SubscribeResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	now := s.now()
	result := &SubscribeResult{}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		subscriberRepo := s.subscriberRepo.WithTx(tx)
		existing, err := subscriberRepo.GetByEmail(normalized)
		if err != nil {
			return err
		}
		if existing != nil && existing.IsActive && existing.IsVerified {
			return ErrAlreadySubscribed
		}
		if existing == nil {
			existing = &models.Subscriber{Email: normalized}
		}
		existing.IsActive = true
		existing.IsVerified = true
		existing.VerifiedAt = &now
		existing.UnsubscribedAt = nil
		if existing.ID == 0 {
			err = subscriberRepo.Create(existing)
		} else {
			err = subscriberRepo.Update(existing)
		}
		if err != nil {
			return err
		}
		result.Subscriber = existing

		promo, err := s.ensureWelcomePromo(s.promoRepo.WithTx(tx), now)
		if err != nil {
			return err
		}
		result.PromoCode = promo
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.PromoCode != nil && sinkEnabled(s.notifier) {
		payload := queue.PromoCodeEmailPayload{
			Email:    normalized,
			Code:     result.PromoCode.Code,
			Discount: describeDiscount(result.PromoCode),
			Locale:   locale,
		}
		if result.PromoCode.ValidUntil != nil {
			payload.ValidUntil = result.PromoCode.ValidUntil.Format("2006-01-02")
		}
		if err := s.notifier.EnqueuePromoCodeEmail(payload); err != nil {
			logger.FromContext(ctx).Warnw("newsletter_enqueue_promo_email_failed",
				"email", normalized,
				"promo_code", result.PromoCode.Code,
				"error", err,
			)
		} else {
			result.EmailQueued = true
		}
	}
	return result, nil
}

// ensureWelcomePromo 欢迎码不存在时按配置创建
func (s *NewsletterService) ensureWelcomePromo(repo repository.PromoCodeRepository, now time.Time) (*models.PromoCode, error) {
	code := NormalizePromoCode(s.cfg.WelcomeCode)
	if code == "" {
		return nil, nil
	}
	promo, err := repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if promo != nil {
		return promo, nil
	}

	percent := s.cfg.WelcomePercent
	if percent <= 0 || percent > 100 {
		percent = 30
	}
	maxUses := s.cfg.WelcomeMaxUses
	if maxUses == 0 || maxUses < constants.UnlimitedUses {
		maxUses = 1
	}
	promo = &models.PromoCode{
		Code:          code,
		DiscountType:  constants.DiscountTypePercent,
		DiscountValue: models.NewMoneyFromInt(int64(percent)),
		ValidFrom:     &now,
		MaxUses:       maxUses,
		IsActive:      true,
	}
	if days := s.cfg.WelcomeValidDays; days > 0 {
		until := now.AddDate(0, 0, days)
		promo.ValidUntil = &until
	}
	if err := repo.Create(promo); err != nil {
		return nil, err
	}
	logger.Infow("newsletter_welcome_promo_created", "promo_code", code)
	return promo, nil
}

// Unsubscribe 退订
func (s *NewsletterService) Unsubscribe(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	subscriber, err := s.subscriberRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if subscriber == nil || !subscriber.IsActive {
		return ErrSubscriberNotFound
	}
	now := s.now()
	subscriber.IsActive = false
	subscriber.UnsubscribedAt = &now
	return s.subscriberRepo.Update(subscriber)
}

// List 后台订阅者列表
func (s *NewsletterService) List(filter repository.SubscriberListFilter) ([]models.Subscriber, int64, error) {
	return s.subscriberRepo.List(filter)
}

// Delete 后台删除订阅者
func (s *NewsletterService) Delete(id uint) error {
	return s.subscriberRepo.Delete(id)
}

// describeDiscount 折扣的展示文本
func describeDiscount(promo *models.PromoCode) string {
	if promo == nil {
		return ""
	}
	if promo.DiscountType == constants.DiscountTypePercent {
		return promo.DiscountValue.Decimal.Truncate(2).String() + "%"
	}
	return promo.DiscountValue.Decimal.StringFixed(2)
}
