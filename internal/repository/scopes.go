package repository

import (
	"errors"

	"gorm.io/gorm"
)

// paginate 分页 scope；pageSize 非正时不分页，页码小于 1 按第一页处理
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// first 取首条记录，未找到返回 nil, nil
func first[T any](query *gorm.DB, conds ...interface{}) (*T, error) {
	var row T
	err := query.First(&row, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// eq 等值过滤 scope，零值视为未指定
func eq[V comparable](column string, value V) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		var zero V
		if value == zero {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

// eqPtr 可选过滤条件，nil 不生效
func eqPtr[V any](column string, value *V) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == nil {
			return db
		}
		return db.Where(column+" = ?", *value)
	}
}

// keyword 多列模糊搜索 scope
func keyword(value string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return applyKeyword(db, value, columns...)
	}
}

// listPage 先统计总数再读取当前页，按 id 倒序
func listPage[T any](query *gorm.DB, page, pageSize int, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Scopes(paginate(page, pageSize))
	for _, association := range preloads {
		query = query.Preload(association)
	}
	rows := make([]T, 0)
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
