package models

import (
	"fmt"

	"gorm.io/gorm"
)

const DefaultPageSize = 15
const MaxPageSize = 1000

// Page is the envelope returned by every paginated list endpoint.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []*T    `json:"results"`
}

// Paginate runs a page-number query against the given gorm query and builds
// the response envelope. Next/Previous are links to the adjacent pages,
// built from basePath.
func Paginate[T any](query *gorm.DB, page int, pageSize int, basePath string) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var model T
	var count int64
	if err := query.Session(&gorm.Session{}).Model(&model).Count(&count).Error; err != nil {
		return nil, err
	}

	var results []*T
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Find(&results).Error; err != nil {
		return nil, err
	}

	p := &Page[T]{
		Count:   count,
		Results: results,
	}
	if int64(offset+len(results)) < count {
		next := fmt.Sprintf("%s?page=%d", basePath, page+1)
		p.Next = &next
	}
	if page > 1 {
		previous := fmt.Sprintf("%s?page=%d", basePath, page-1)
		p.Previous = &previous
	}
	return p, nil
}
