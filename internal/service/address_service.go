package service

import (
	"strings"

	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"

	"gorm.io/gorm"
)

// AddressInput 收货地址输入
type AddressInput struct {
	FullName   string
	Phone      string
	Street     string
	City       string
	PostalCode string
	Country    string
	IsDefault  bool
}

func (in AddressInput) normalized() (AddressInput, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.Country = strings.TrimSpace(in.Country)
	if in.FullName == "" || in.Phone == "" || in.Street == "" || in.City == "" {
		return in, ErrAddressInvalid
	}
	if in.Country == "" {
		in.Country = "Russia"
	}
	return in, nil
}

// AddressService 收货地址服务
type AddressService struct {
	addressRepo repository.AddressRepository
	orderRepo   repository.OrderRepository
}

// NewAddressService 创建地址服务
func NewAddressService(addressRepo repository.AddressRepository, orderRepo repository.OrderRepository) *AddressService {
	return &AddressService{addressRepo: addressRepo, orderRepo: orderRepo}
}

// List 获取用户地址
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	return s.addressRepo.ListByUser(userID)
}

// Create 新增地址，用户的第一个地址自动成为默认地址
func (s *AddressService) Create(userID uint, input AddressInput) (*models.Address, error) {
	in, err := input.normalized()
	if err != nil {
		return nil, err
	}
	address := &models.Address{
		UserID:     userID,
		FullName:   in.FullName,
		Phone:      in.Phone,
		Street:     in.Street,
		City:       in.City,
		PostalCode: in.PostalCode,
		Country:    in.Country,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.addressRepo.WithTx(tx)
		count, err := repo.CountByUser(userID)
		if err != nil {
			return err
		}
		makeDefault := in.IsDefault || count == 0
		if err := repo.Create(address); err != nil {
			return err
		}
		if makeDefault {
			address.IsDefault = true
			return repo.SetDefault(userID, address.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Update 修改地址，已下单的订单保留下单时的快照
func (s *AddressService) Update(userID, addressID uint, input AddressInput) (*models.Address, error) {
	in, err := input.normalized()
	if err != nil {
		return nil, err
	}
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	address.FullName = in.FullName
	address.Phone = in.Phone
	address.Street = in.Street
	address.City = in.City
	address.PostalCode = in.PostalCode
	address.Country = in.Country
	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	if in.IsDefault && !address.IsDefault {
		if err := s.addressRepo.SetDefault(userID, address.ID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}
	return address, nil
}

// Delete 删除地址，被订单引用时拒绝
func (s *AddressService) Delete(userID, addressID uint) error {
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	refs, err := s.orderRepo.CountByAddress(address.ID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrAddressInUse
	}
	return s.addressRepo.Delete(address.ID)
}

// SetDefault 设置默认地址
func (s *AddressService) SetDefault(userID, addressID uint) error {
	address, err := s.addressRepo.GetByIDAndUser(addressID, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	return s.addressRepo.SetDefault(userID, address.ID)
}
