package service

import (
	"strings"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"

	"github.com/shopspring/decimal"
)

// PromoAdminService 优惠码管理服务
type PromoAdminService struct {
	repo repository.PromoCodeRepository
}

// NewPromoAdminService 创建优惠码管理服务
func NewPromoAdminService(repo repository.PromoCodeRepository) *PromoAdminService {
	return &PromoAdminService{repo: repo}
}

// PromoCodeInput 创建/更新优惠码输入
type PromoCodeInput struct {
	Code          string
	DiscountType  string
	DiscountValue models.Money
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	MaxUses       *int
	IsActive      *bool
}

type normalizedPromoInput struct {
	code         string
	discountType string
	maxUses      int
	isActive     bool
}

func normalizePromoInput(input PromoCodeInput) (normalizedPromoInput, error) {
	out := normalizedPromoInput{
		code:         NormalizePromoCode(input.Code),
		discountType: strings.ToLower(strings.TrimSpace(input.DiscountType)),
		maxUses:      constants.UnlimitedUses,
		isActive:     true,
	}
	if out.discountType != constants.DiscountTypePercent && out.discountType != constants.DiscountTypeFixed {
		return out, ErrPromoInvalid
	}
	value := input.DiscountValue.Decimal
	if value.LessThanOrEqual(decimal.Zero) {
		return out, ErrPromoInvalid
	}
	if out.discountType == constants.DiscountTypePercent && value.GreaterThan(hundred) {
		return out, ErrPromoInvalid
	}
	if input.ValidFrom != nil && input.ValidUntil != nil && input.ValidUntil.Before(*input.ValidFrom) {
		return out, ErrPromoInvalid
	}
	if input.MaxUses != nil {
		if *input.MaxUses != constants.UnlimitedUses && *input.MaxUses < 1 {
			return out, ErrPromoInvalid
		}
		out.maxUses = *input.MaxUses
	}
	if input.IsActive != nil {
		out.isActive = *input.IsActive
	}
	return out, nil
}

// List 优惠码列表
func (s *PromoAdminService) List(filter repository.PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	filter.Code = strings.TrimSpace(filter.Code)
	return s.repo.List(filter)
}

// Get 优惠码详情
func (s *PromoAdminService) Get(id uint) (*models.PromoCode, error) {
	promo, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}
	return promo, nil
}

// Create 创建优惠码，编码统一为大写且不可重复
func (s *PromoAdminService) Create(input PromoCodeInput) (*models.PromoCode, error) {
	in, err := normalizePromoInput(input)
	if err != nil {
		return nil, err
	}
	if in.code == "" || len(in.code) > 50 {
		return nil, ErrPromoInvalid
	}
	exist, err := s.repo.GetByCode(in.code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrPromoCodeExists
	}

	promo := &models.PromoCode{
		Code:          in.code,
		DiscountType:  in.discountType,
		DiscountValue: models.NewMoneyFromDecimal(input.DiscountValue.Decimal),
		ValidFrom:     input.ValidFrom,
		ValidUntil:    input.ValidUntil,
		MaxUses:       in.maxUses,
		IsActive:      in.isActive,
	}
	if err := s.repo.Create(promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Update 更新优惠码，编码与已使用次数保持不变
func (s *PromoAdminService) Update(id uint, input PromoCodeInput) (*models.PromoCode, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrPromoNotFound
	}
	in, err := normalizePromoInput(input)
	if err != nil {
		return nil, err
	}
	existing.DiscountType = in.discountType
	existing.DiscountValue = models.NewMoneyFromDecimal(input.DiscountValue.Decimal)
	existing.ValidFrom = input.ValidFrom
	existing.ValidUntil = input.ValidUntil
	existing.MaxUses = in.maxUses
	existing.IsActive = in.isActive
	// 上限校验在 UPDATE 条件内完成，并发核销不会使 current_uses 超过 max_uses
	affected, err := s.repo.Update(existing)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPromoInvalid
	}
	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPromoNotFound
	}
	return updated, nil
}

// Delete 删除优惠码，已被订单引用时拒绝
func (s *PromoAdminService) Delete(id uint) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPromoNotFound
	}
	refs, err := s.repo.CountOrderReferences(id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrPromoInUse
	}
	return s.repo.Delete(id)
}
