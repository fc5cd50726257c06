package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/CHOJUNGHO96/algo-reference/internal/models"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
)

func TestPageCount(t *testing.T) {
	tests := []struct{ total, size, want int }{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{25, 12, 3},
		{50, 50, 1},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.size); got != tt.want {
			t.Fatalf("PageCount(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestListParams_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		in      ListParams
		want    ListParams
		wantErr bool
	}{
		{
			name: "defaults",
			in:   ListParams{},
			want: ListParams{Page: 1, Size: 12, SortBy: "created_at", Order: "desc"},
		},
		{
			name: "case folded",
			in:   ListParams{Page: 2, Size: 50, SortBy: " Title ", Order: "ASC", Search: "  q "},
			want: ListParams{Page: 2, Size: 50, SortBy: "title", Order: "asc", Search: "q"},
		},
		{name: "negative page", in: ListParams{Page: -1}, wantErr: true},
		{name: "size too big", in: ListParams{Size: 51}, wantErr: true},
		{name: "negative size", in: ListParams{Size: -3}, wantErr: true},
		{name: "unknown sort", in: ListParams{SortBy: "slug"}, wantErr: true},
		{name: "unknown order", in: ListParams{Order: "up"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.normalize()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// fakeListing serves a fixed number of published rows and pages them like the database.
func fakeListing(total int) func(f repository.AlgorithmFilter) ([]models.AlgorithmSummary, int, error) {
	return func(f repository.AlgorithmFilter) ([]models.AlgorithmSummary, int, error) {
		items := []models.AlgorithmSummary{}
		for i := f.Offset; i < total && i < f.Offset+f.Limit; i++ {
			items = append(items, models.AlgorithmSummary{ID: i + 1})
		}
		return items, total, nil
	}
}

func TestAlgorithmService_ListPagination(t *testing.T) {
	repos, algs, _ := newMockRepos()
	algs.ListFn = fakeListing(25)
	svc := NewAlgorithmService(repos, NewSanitizer())
	ctx := context.Background()

	tests := []struct {
		page, wantItems, wantOffset int
	}{
		{1, 12, 0},
		{2, 12, 12},
		{3, 1, 24},
		{4, 0, 36},
	}
	for _, tt := range tests {
		page, err := svc.List(ctx, ListParams{Page: tt.page, Size: 12})
		if err != nil {
			t.Fatalf("page %d: %v", tt.page, err)
		}
		if page.Total != 25 || page.Pages != 3 || page.Page != tt.page || page.Size != 12 {
			t.Fatalf("page %d: unexpected meta %+v", tt.page, page)
		}
		if len(page.Items) != tt.wantItems {
			t.Fatalf("page %d: expected %d items, got %d", tt.page, tt.wantItems, len(page.Items))
		}
		if algs.lastFilter.Offset != tt.wantOffset || algs.lastFilter.Limit != 12 {
			t.Fatalf("page %d: unexpected filter %+v", tt.page, algs.lastFilter)
		}
	}
}

func TestAlgorithmService_ListHugePageIsPastTheEnd(t *testing.T) {
	repos, algs, _ := newMockRepos()
	algs.ListFn = fakeListing(25)
	svc := NewAlgorithmService(repos, NewSanitizer())

	tests := []struct {
		page, size, wantOffset int
	}{
		{math.MaxInt, 2, math.MaxInt},
		{math.MaxInt, 50, math.MaxInt},
		{math.MaxInt/12 + 2, 12, math.MaxInt},
		{math.MaxInt/12 + 1, 12, math.MaxInt / 12 * 12},
	}
	for _, tt := range tests {
		page, err := svc.List(context.Background(), ListParams{Page: tt.page, Size: tt.size})
		if err != nil {
			t.Fatalf("page %d: %v", tt.page, err)
		}
		if algs.lastFilter.Offset != tt.wantOffset {
			t.Fatalf("page %d size %d: offset = %d, want %d", tt.page, tt.size, algs.lastFilter.Offset, tt.wantOffset)
		}
		if len(page.Items) != 0 || page.Total != 25 || page.Page != tt.page {
			t.Fatalf("page %d: unexpected result %+v", tt.page, page)
		}
	}
}

func TestAlgorithmService_ListEmpty(t *testing.T) {
	repos, algs, _ := newMockRepos()
	algs.ListFn = func(repository.AlgorithmFilter) ([]models.AlgorithmSummary, int, error) { return nil, 0, nil }

	page, err := NewAlgorithmService(repos, NewSanitizer()).List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 0 || page.Pages != 0 || page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("unexpected empty page: %+v", page)
	}
}

func TestAlgorithmService_ListBlankSearchIsNoSearch(t *testing.T) {
	repos, algs, _ := newMockRepos()
	svc := NewAlgorithmService(repos, NewSanitizer())
	ctx := context.Background()

	if _, err := svc.List(ctx, ListParams{Search: "   "}); err != nil {
		t.Fatalf("List: %v", err)
	}
	withBlank := algs.lastFilter
	if _, err := svc.List(ctx, ListParams{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if withBlank != algs.lastFilter {
		t.Fatalf("blank search changed the filter: %+v vs %+v", withBlank, algs.lastFilter)
	}
}

func TestAlgorithmService_ListRejectsBadParams(t *testing.T) {
	repos, algs, _ := newMockRepos()
	algs.ListFn = func(repository.AlgorithmFilter) ([]models.AlgorithmSummary, int, error) {
		t.Fatal("repository must not be called")
		return nil, 0, nil
	}
	_, err := NewAlgorithmService(repos, NewSanitizer()).List(context.Background(), ListParams{SortBy: "password_hash"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
