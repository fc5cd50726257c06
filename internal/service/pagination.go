package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// PageCount is ceil(total/size), and 0 when there is nothing to page.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// normalize fills defaults and rejects out-of-range values.
func (p ListParams) normalize() (ListParams, error) {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Size == 0 {
		p.Size = DefaultPageSize
	}
	if p.Page < 1 {
		return p, fmt.Errorf("%w: page must be >= 1", ErrValidation)
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		return p, fmt.Errorf("%w: size must be between 1 and %d", ErrValidation, MaxPageSize)
	}

	p.SortBy = strings.ToLower(strings.TrimSpace(p.SortBy))
	if p.SortBy == "" {
		p.SortBy = repository.SortCreatedAt
	}
	if !repository.ValidSortKey(p.SortBy) {
		return p, fmt.Errorf("%w: unsupported sort_by %q", ErrValidation, p.SortBy)
	}

	p.Order = strings.ToLower(strings.TrimSpace(p.Order))
	switch p.Order {
	case "":
		p.Order = repository.OrderDesc
	case repository.OrderAsc, repository.OrderDesc:
	default:
		return p, fmt.Errorf("%w: order must be asc or desc", ErrValidation)
	}

	p.Search = strings.TrimSpace(p.Search)
	return p, nil
}

func (p ListParams) filter() repository.AlgorithmFilter {
	return repository.AlgorithmFilter{
		CategoryID:   p.CategoryID,
		DifficultyID: p.DifficultyID,
		Search:       p.Search,
		SortBy:       p.SortBy,
		Order:        p.Order,
		Limit:        p.Size,
		Offset:       p.offset(),
	}
}

// offset saturates at math.MaxInt so a page too large to address still lands
// past the last row.
func (p ListParams) offset() int {
	if p.Page-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Size
}
