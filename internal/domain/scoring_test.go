package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopularityScore(t *testing.T) {
	tests := []struct {
		ratings, favorites int64
		want               float64
	}{
		{0, 0, 0},
		{10, 0, 10},
		{0, 3, 6},
		{12, 5, 22},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, PopularityScore(tt.ratings, tt.favorites), 1e-9)
	}
}

func TestParseDiscountPercent(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "0", want: 0, wantOK: true},
		{in: "30", want: 30, wantOK: true},
		{in: "100", want: 100, wantOK: true},
		{in: "007", want: 7, wantOK: true},
		{in: "999999999", want: 999999999, wantOK: true},
		{in: "1000000000"},
		{in: ""},
		{in: "30%"},
		{in: "-5"},
		{in: "12.5"},
		{in: " 30"},
		{in: "size-up"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDiscountPercent(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
