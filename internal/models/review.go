package models

import "time"

// Review 商品评价，(product, user) 唯一
type Review struct {
	ID                 uint      `gorm:"primarykey" json:"id"`                                           // 主键
	ProductID          uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"product_id"` // 商品ID
	UserID             uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"user_id"`    // 用户ID
	Rating             int       `gorm:"not null" json:"rating"`                                         // 评分 1-5
	Title              string    `gorm:"size:200" json:"title"`                                          // 标题
	Content            string    `gorm:"type:text" json:"content"`                                       // 内容
	IsVerifiedPurchase bool      `gorm:"not null;default:false" json:"is_verified_purchase"`             // 是否已购
	IsApproved         bool      `gorm:"not null;default:false;index" json:"is_approved"`                // 是否审核通过
	CreatedAt          time.Time `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt          time.Time `json:"updated_at"`                                                     // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 评价用户
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
