package service

import (
	"strings"
	"time"

	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"

	"gorm.io/gorm"
)

// PromoLedger 优惠码账本：校验可用性并在下单事务内原子核销
type PromoLedger struct {
	repo repository.PromoCodeRepository
}

// NewPromoLedger 创建优惠码账本
func NewPromoLedger(repo repository.PromoCodeRepository) *PromoLedger {
	return &PromoLedger{repo: repo}
}

// NormalizePromoCode 去除首尾空白并转为大写
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckPromoUsable 判断优惠码在 at 时刻是否可用
func CheckPromoUsable(promo *models.PromoCode, at time.Time) error {
	if promo == nil {
		return newPromoValidationError(PromoReasonNotFound, "")
	}
	if !promo.IsActive {
		return newPromoValidationError(PromoReasonInactive, promo.Code)
	}
	if promo.ValidFrom != nil && at.Before(*promo.ValidFrom) {
		return newPromoValidationError(PromoReasonNotStarted, promo.Code)
	}
	if promo.ValidUntil != nil && at.After(*promo.ValidUntil) {
		return newPromoValidationError(PromoReasonExpired, promo.Code)
	}
	if !promo.Unlimited() && promo.CurrentUses >= promo.MaxUses {
		return newPromoValidationError(PromoReasonUsageExceeded, promo.Code)
	}
	return nil
}

// Validate 在事务外校验优惠码，用于预览
func (l *PromoLedger) Validate(code string, at time.Time) (*models.PromoCode, error) {
	return l.validateWith(l.repo, code, at)
}

// ValidateTx 在下单事务内重新校验优惠码
func (l *PromoLedger) ValidateTx(tx *gorm.DB, code string, at time.Time) (*models.PromoCode, error) {
	return l.validateWith(l.repo.WithTx(tx), code, at)
}

func (l *PromoLedger) validateWith(repo repository.PromoCodeRepository, code string, at time.Time) (*models.PromoCode, error) {
	normalized := NormalizePromoCode(code)
	if normalized == "" {
		return nil, newPromoValidationError(PromoReasonNotFound, normalized)
	}
	promo, err := repo.GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, newPromoValidationError(PromoReasonNotFound, normalized)
	}
	if err := CheckPromoUsable(promo, at); err != nil {
		return nil, err
	}
	return promo, nil
}

// Redeem 在下单事务内核销一次，名额已被并发占用时返回 ErrPromoUsageExceeded
func (l *PromoLedger) Redeem(tx *gorm.DB, promoID uint, orderID uint) error {
	ok, err := l.repo.WithTx(tx).IncrementUsesIfAvailable(promoID)
	if err != nil {
		return err
	}
	if !ok {
		logger.Infow("promo_redeem_race_lost", "promo_code_id", promoID, "order_id", orderID)
		return ErrPromoUsageExceeded
	}
	return nil
}
