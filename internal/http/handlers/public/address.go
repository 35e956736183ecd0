package public

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 收货地址请求
type AddressRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		FullName:   r.FullName,
		Phone:      r.Phone,
		Street:     r.Street,
		City:       r.City,
		PostalCode: r.PostalCode,
		Country:    r.Country,
		IsDefault:  r.IsDefault,
	}
}

// ListAddresses 收货地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新增收货地址
func (h *Handler) CreateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "address.invalid", err)
		return
	}
	address, err := h.AddressService.Create(uid, req.toInput())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, address)
}

// UpdateAddress 修改收货地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "address.invalid", err)
		return
	}
	address, err := h.AddressService.Update(uid, addressID, req.toInput())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除收货地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.AddressService.Delete(uid, addressID); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// SetDefaultAddress 设为默认地址
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.AddressService.SetDefault(uid, addressID); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"updated": true})
}
