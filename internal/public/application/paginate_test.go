package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		size      int
		wantItems []int
		wantPages int
		wantPage  int
	}{
		{name: "first page", total: 25, page: 1, size: 10, wantItems: numbers(10), wantPages: 3, wantPage: 1},
		{name: "last partial page", total: 25, page: 3, size: 10, wantItems: []int{21, 22, 23, 24, 25}, wantPages: 3, wantPage: 3},
		{name: "exact multiple", total: 20, page: 2, size: 10, wantItems: []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, wantPages: 2, wantPage: 2},
		{name: "beyond last page", total: 25, page: 4, size: 10, wantItems: []int{}, wantPages: 3, wantPage: 4},
		{name: "huge page", total: 5, page: int(^uint(0) >> 1), size: 10, wantItems: []int{}, wantPages: 1, wantPage: int(^uint(0) >> 1)},
		{name: "zero page defaults to first", total: 3, page: 0, size: 10, wantItems: []int{1, 2, 3}, wantPages: 1, wantPage: 1},
		{name: "negative page defaults to first", total: 3, page: -2, size: 2, wantItems: []int{1, 2}, wantPages: 2, wantPage: 1},
		{name: "zero size uses default", total: 12, page: 2, size: 0, wantItems: []int{11, 12}, wantPages: 2, wantPage: 2},
		{name: "empty collection", total: 0, page: 3, size: 10, wantItems: []int{}, wantPages: 0, wantPage: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(numbers(tt.total), tt.page, tt.size)
			assert.Equal(t, tt.wantItems, got.Items)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.wantPage, got.CurrentPage)
			assert.Equal(t, tt.total, got.Total)
		})
	}
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	items := numbers(4)
	page := Paginate(items, 1, 2)
	page.Items[0] = 99
	assert.Equal(t, 1, items[0])
}
