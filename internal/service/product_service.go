package service

import (
	"strconv"
	"strings"

	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
)

// ProductService 商品目录服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       models.Money
	OldPrice    *models.Money
	Stock       int
	SKU         string
	IsActive    *bool
}

// ListPublic 获取上架商品列表
func (s *ProductService) ListPublic(search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     search,
		OnlyActive: true,
	})
}

// ListAdmin 获取后台商品列表，包含已下架商品
func (s *ProductService) ListAdmin(search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
	})
}

// GetPublic 按 ID 或 slug 获取上架商品
func (s *ProductService) GetPublic(ref string) (*models.Product, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrProductNotFound
	}
	var (
		product *models.Product
		err     error
	)
	if id, parseErr := strconv.ParseUint(ref, 10, 64); parseErr == nil {
		product, err = s.repo.GetByID(uint(id))
	} else {
		product, err = s.repo.GetBySlug(strings.ToLower(ref))
	}
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品，slug 统一小写
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if name == "" || slug == "" || input.Stock < 0 || input.Price.Decimal.IsNegative() {
		return nil, ErrProductUnavailable
	}
	product := &models.Product{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		OldPrice:    input.OldPrice,
		Stock:       input.Stock,
		IsActive:    true,
	}
	if sku := strings.TrimSpace(input.SKU); sku != "" {
		product.SKU = &sku
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	// default:true 的布尔列在 Create 时会忽略 false
	if input.IsActive != nil && !*input.IsActive {
		if err := models.DB.Model(product).Update("is_active", false).Error; err != nil {
			return nil, err
		}
		product.IsActive = false
	}
	return product, nil
}
