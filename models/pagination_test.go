package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name    string
		p       Pagination
		total   int64
		pages   int
		hasNext bool
		hasPrev bool
	}{
		{"first of three pages", Pagination{Page: 1, PerPage: 10}, 25, 3, true, false},
		{"middle page", Pagination{Page: 2, PerPage: 10}, 25, 3, true, true},
		{"last page", Pagination{Page: 3, PerPage: 10}, 25, 3, false, true},
		{"exact fit", Pagination{Page: 2, PerPage: 10}, 20, 2, false, true},
		{"empty result", Pagination{Page: 1, PerPage: 10}, 0, 0, false, false},
		{"single item", Pagination{Page: 1, PerPage: 10}, 1, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.p, tt.total)
			assert.Equal(t, tt.total, info.Total)
			assert.Equal(t, tt.pages, info.Pages)
			assert.Equal(t, tt.hasNext, info.HasNext)
			assert.Equal(t, tt.hasPrev, info.HasPrev)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 20, Pagination{Page: 3, PerPage: 10}.Offset())
	assert.Equal(t, 100, Pagination{Page: 2, PerPage: 100}.Offset())
}
