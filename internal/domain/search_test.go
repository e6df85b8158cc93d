package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchParams_Normalize(t *testing.T) {
	tests := []struct {
		name           string
		page, size     int
		maxSize        int
		wantPage, want int
	}{
		{name: "zero values", page: 0, size: 0, wantPage: 1, want: 20},
		{name: "negative values", page: -3, size: -1, wantPage: 1, want: 20},
		{name: "in range", page: 4, size: 50, wantPage: 4, want: 50},
		{name: "clamped to default max", page: 1, size: 500, wantPage: 1, want: MaxPageSize},
		{name: "clamped to configured max", page: 1, size: 60, maxSize: 50, wantPage: 1, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SearchParams{Page: tt.page, Size: tt.size}
			p.Normalize(tt.maxSize)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.want, p.Size)
		})
	}
}

func TestSearchParams_OffsetLimit(t *testing.T) {
	p := SearchParams{Page: 3, Size: 20}
	assert.Equal(t, 40, p.Offset())
	assert.Equal(t, 20, p.Limit())
}

func TestNewSearchResult_HasNext(t *testing.T) {
	tests := []struct {
		page, size int
		total      int64
		want       bool
	}{
		{page: 1, size: 20, total: 0, want: false},
		{page: 1, size: 20, total: 20, want: false},
		{page: 1, size: 20, total: 21, want: true},
		{page: 2, size: 10, total: 21, want: true},
		{page: 3, size: 10, total: 21, want: false},
		{page: 9, size: 10, total: 21, want: false},
	}

	for _, tt := range tests {
		r := NewSearchResult(nil, tt.total, SearchParams{Page: tt.page, Size: tt.size})
		assert.Equal(t, tt.want, r.HasNext, "page=%d size=%d total=%d", tt.page, tt.size, tt.total)
		assert.NotNil(t, r.Items)
		assert.Equal(t, tt.total, r.Total)
	}
}
