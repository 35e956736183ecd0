package service

import (
	"fmt"
	"strings"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricingLine 计价输入行
type PricingLine struct {
	ProductID uint
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// PricingPolicy 运费与税率
type PricingPolicy struct {
	ShippingCost decimal.Decimal
	TaxRate      decimal.Decimal
}

// QuoteLine 报价明细
type QuoteLine struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	UnitPrice models.Money `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	Subtotal  models.Money `json:"subtotal"`
}

// Quote 报价结果，所有金额保留两位小数
type Quote struct {
	Lines        []QuoteLine  `json:"lines"`
	Subtotal     models.Money `json:"subtotal"`
	ShippingCost models.Money `json:"shipping_cost"`
	Tax          models.Money `json:"tax"`
	GrossTotal   models.Money `json:"gross_total"`
	Discount     models.Money `json:"discount"`
	Total        models.Money `json:"total"`
	PromoCode    string       `json:"promo_code,omitempty"`
	PromoCodeID  *uint        `json:"-"`
}

// Price 计算订单报价
//
// subtotal = Σ 单价×数量；tax = round(subtotal×税率, 2)；
// gross = subtotal + 运费 + tax；折扣按优惠码计算并截断到 gross；
// total = gross - discount。promo 为 nil 表示无折扣，调用方负责校验其可用性。
func Price(lines []PricingLine, policy PricingPolicy, promo *models.PromoCode) (*Quote, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if policy.ShippingCost.IsNegative() || policy.TaxRate.IsNegative() {
		return nil, fmt.Errorf("%w: negative pricing policy", ErrInvalidCartLine)
	}

	quote := &Quote{Lines: make([]QuoteLine, 0, len(lines))}
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 || line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidCartLine, line.ProductID)
		}
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: models.NewMoneyFromDecimal(line.UnitPrice),
			Quantity:  line.Quantity,
			Subtotal:  models.NewMoneyFromDecimal(lineTotal),
		})
	}

	shipping := policy.ShippingCost.Round(2)
	tax := subtotal.Mul(policy.TaxRate).Round(2)
	gross := subtotal.Add(shipping).Add(tax)

	discount := decimal.Zero
	if promo != nil {
		discount = computeDiscount(promo, gross)
		quote.PromoCode = promo.Code
		id := promo.ID
		quote.PromoCodeID = &id
	}

	quote.Subtotal = models.NewMoneyFromDecimal(subtotal)
	quote.ShippingCost = models.NewMoneyFromDecimal(shipping)
	quote.Tax = models.NewMoneyFromDecimal(tax)
	quote.GrossTotal = models.NewMoneyFromDecimal(gross)
	quote.Discount = models.NewMoneyFromDecimal(discount)
	quote.Total = models.NewMoneyFromDecimal(gross.Sub(discount))
	return quote, nil
}

// computeDiscount 按类型计算折扣，结果落在 [0, gross]
func computeDiscount(promo *models.PromoCode, gross decimal.Decimal) decimal.Decimal {
	value := promo.DiscountValue.Decimal
	if value.IsNegative() {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch strings.ToLower(strings.TrimSpace(promo.DiscountType)) {
	case constants.DiscountTypePercent:
		discount = gross.Mul(value).Div(hundred).Round(2)
	case constants.DiscountTypeFixed:
		discount = value.Round(2)
	default:
		return decimal.Zero
	}
	if discount.GreaterThan(gross) {
		return gross
	}
	return discount
}
