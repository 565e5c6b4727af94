package service

import "gorm.io/gorm"

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest 描述分页参数，零值时使用默认值
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination 是列表响应中的分页元数据
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// NewPagination 根据当前页、每页数量与总数计算分页信息
func NewPagination(page, limit int, total int64) Pagination {
	req := PageRequest{Page: page, Limit: limit}.normalize()
	pages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return Pagination{
		Page:    req.Page,
		Limit:   req.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: int64(req.Page*req.Limit) < total,
		HasPrev: req.Page > 1,
	}
}

// ListResult 携带一页记录及分页信息
type ListResult[T any] struct {
	Items      []T
	Pagination Pagination
}

// paginate 统计总数后按页加载，query 需已包含归属与筛选条件
func paginate[T any](query *gorm.DB, page PageRequest, order ...string) (*ListResult[T], error) {
	page = page.normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	find := query.Session(&gorm.Session{})
	for _, clause := range order {
		find = find.Order(clause)
	}

	items := make([]T, 0, page.Limit)
	if err := find.Offset(page.offset()).Limit(page.Limit).Find(&items).Error; err != nil {
		return nil, err
	}

	return &ListResult[T]{Items: items, Pagination: NewPagination(page.Page, page.Limit, total)}, nil
}
