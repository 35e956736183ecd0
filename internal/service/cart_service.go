package service

import (
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	Subtotal  models.Money    `json:"subtotal"`
	InStock   bool            `json:"in_stock"`
	Product   *models.Product `json:"product"`
}

// CartView 购物车视图
type CartView struct {
	Items    []CartItemDetail `json:"items"`
	Subtotal models.Money     `json:"subtotal"`
	Count    int              `json:"count"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListByUser 获取用户购物车，按商品当前价格计算小计；已下架商品会被移出购物车
func (s *CartService) ListByUser(userID uint) (*CartView, error) {
	if userID == 0 {
		return nil, ErrInvalidCartLine
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: make([]CartItemDetail, 0, len(items))}
	subtotal := decimal.Zero
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			product, err = s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
		}
		if product == nil || !product.IsActive {
			if err := s.cartRepo.DeleteByUserAndProduct(userID, item.ProductID); err != nil {
				logger.Warnw("cart_drop_unavailable_line_failed", "user_id", userID, "product_id", item.ProductID, "error", err)
			}
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		view.Count += item.Quantity
		view.Items = append(view.Items, CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  models.NewMoneyFromDecimal(lineTotal),
			InStock:   product.Stock >= item.Quantity,
			Product:   product,
		})
	}
	view.Subtotal = models.NewMoneyFromDecimal(subtotal)
	return view, nil
}

// AddItem 加入购物车，已存在的行累加数量
func (s *CartService) AddItem(userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 || quantity <= 0 {
		return ErrInvalidCartLine
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !product.IsActive {
		return ErrProductUnavailable
	}
	return s.cartRepo.AddQuantity(userID, productID, quantity)
}

// SetQuantity 设置购物车行数量，小于 1 视为非法
func (s *CartService) SetQuantity(userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 || quantity < 1 {
		return ErrInvalidCartLine
	}
	affected, err := s.cartRepo.SetQuantity(userID, productID, quantity)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrInvalidCartLine
	}
	return s.cartRepo.DeleteByUserAndProduct(userID, productID)
}
