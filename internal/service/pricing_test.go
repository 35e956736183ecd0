package service

import (
	"testing"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPolicy() PricingPolicy {
	return PricingPolicy{
		ShippingCost: decimal.RequireFromString("300.00"),
		TaxRate:      decimal.RequireFromString("0.05"),
	}
}

func sampleLines() []PricingLine {
	return []PricingLine{
		{ProductID: 1, Name: "Dog food", UnitPrice: decimal.RequireFromString("100.00"), Quantity: 2},
		{ProductID: 2, Name: "Cat toy", UnitPrice: decimal.RequireFromString("50.00"), Quantity: 1},
	}
}

func TestPriceWithPercentPromo(t *testing.T) {
	promo := &models.PromoCode{ID: 7, Code: "SAVE10", DiscountType: constants.DiscountTypePercent, DiscountValue: models.MustMoney("10")}

	quote, err := Price(sampleLines(), defaultPolicy(), promo)
	require.NoError(t, err)

	assert.Equal(t, "250.00", quote.Subtotal.String())
	assert.Equal(t, "300.00", quote.ShippingCost.String())
	assert.Equal(t, "12.50", quote.Tax.String())
	assert.Equal(t, "562.50", quote.GrossTotal.String())
	assert.Equal(t, "56.25", quote.Discount.String())
	assert.Equal(t, "506.25", quote.Total.String())
	assert.Equal(t, "SAVE10", quote.PromoCode)
	require.NotNil(t, quote.PromoCodeID)
	assert.Equal(t, uint(7), *quote.PromoCodeID)
	require.Len(t, quote.Lines, 2)
	assert.Equal(t, "200.00", quote.Lines[0].Subtotal.String())
}

func TestPriceWithoutPromo(t *testing.T) {
	quote, err := Price(sampleLines(), defaultPolicy(), nil)
	require.NoError(t, err)
	assert.Equal(t, "0.00", quote.Discount.String())
	assert.Equal(t, "562.50", quote.Total.String())
	assert.Nil(t, quote.PromoCodeID)
}

func TestPriceFixedDiscountClampedToGross(t *testing.T) {
	promo := &models.PromoCode{Code: "BIG", DiscountType: constants.DiscountTypeFixed, DiscountValue: models.MustMoney("10000")}
	quote, err := Price(sampleLines(), defaultPolicy(), promo)
	require.NoError(t, err)
	assert.Equal(t, "562.50", quote.Discount.String())
	assert.Equal(t, "0.00", quote.Total.String())
}

func TestPriceFixedDiscount(t *testing.T) {
	promo := &models.PromoCode{Code: "MINUS100", DiscountType: constants.DiscountTypeFixed, DiscountValue: models.MustMoney("100")}
	quote, err := Price(sampleLines(), defaultPolicy(), promo)
	require.NoError(t, err)
	assert.Equal(t, "100.00", quote.Discount.String())
	assert.Equal(t, "462.50", quote.Total.String())
}

func TestPriceRoundsTaxAndPercent(t *testing.T) {
	lines := []PricingLine{{ProductID: 1, Name: "Treats", UnitPrice: decimal.RequireFromString("33.33"), Quantity: 3}}
	promo := &models.PromoCode{Code: "P15", DiscountType: constants.DiscountTypePercent, DiscountValue: models.MustMoney("15")}

	quote, err := Price(lines, defaultPolicy(), promo)
	require.NoError(t, err)

	// 99.99 * 0.05 = 4.9995 -> 5.00
	assert.Equal(t, "99.99", quote.Subtotal.String())
	assert.Equal(t, "5.00", quote.Tax.String())
	assert.Equal(t, "404.99", quote.GrossTotal.String())
	// 404.99 * 0.15 = 60.7485 -> 60.75
	assert.Equal(t, "60.75", quote.Discount.String())
	assert.Equal(t, "344.24", quote.Total.String())

	reconciled := quote.Subtotal.Add(quote.ShippingCost.Decimal).Add(quote.Tax.Decimal).Sub(quote.Discount.Decimal)
	assert.True(t, reconciled.Equal(quote.Total.Decimal))
}

func TestPriceRejectsEmptyAndInvalidLines(t *testing.T) {
	_, err := Price(nil, defaultPolicy(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = Price([]PricingLine{{ProductID: 1, UnitPrice: decimal.NewFromInt(10), Quantity: 0}}, defaultPolicy(), nil)
	assert.ErrorIs(t, err, ErrInvalidCartLine)
}

func TestPriceUnknownDiscountTypeAppliesNothing(t *testing.T) {
	promo := &models.PromoCode{Code: "ODD", DiscountType: "bogus", DiscountValue: models.MustMoney("50")}
	quote, err := Price(sampleLines(), defaultPolicy(), promo)
	require.NoError(t, err)
	assert.Equal(t, "0.00", quote.Discount.String())
}
