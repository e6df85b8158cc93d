package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
		delta    float64
	}{
		{
			name:     "same point",
			a:        Point{Lat: 37.5544, Lng: 126.9296},
			b:        Point{Lat: 37.5544, Lng: 126.9296},
			expected: 0,
			delta:    1e-9,
		},
		{
			name:     "seoul to busan",
			a:        Point{Lat: 37.5665, Lng: 126.9780},
			b:        Point{Lat: 35.1796, Lng: 129.0756},
			expected: 325.11,
			delta:    0.01,
		},
		{
			name:     "hongdae neighbours",
			a:        Point{Lat: 37.5544, Lng: 126.9296},
			b:        Point{Lat: 37.5563, Lng: 126.9236},
			expected: 0.5695,
			delta:    0.0001,
		},
		{
			name:     "antipodal on equator",
			a:        Point{Lat: 0, Lng: 0},
			b:        Point{Lat: 0, Lng: 180},
			expected: math.Pi * EarthRadiusKm,
			delta:    1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, HaversineKm(tt.a, tt.b), tt.delta)
			assert.InDelta(t, tt.expected, HaversineKm(tt.b, tt.a), tt.delta, "distance must be symmetric")
		})
	}
}

func TestDistanceKm_MissingPoint(t *testing.T) {
	p := &Point{Lat: 37.5, Lng: 127}

	assert.Nil(t, DistanceKm(nil, p))
	assert.Nil(t, DistanceKm(p, nil))
	assert.Nil(t, DistanceKm(nil, nil))

	d := DistanceKm(p, p)
	require.NotNil(t, d)
	assert.InDelta(t, 0, *d, 1e-9)
}

func TestPoint_Validate(t *testing.T) {
	valid := []Point{
		{Lat: 0, Lng: 0},
		{Lat: 90, Lng: 180},
		{Lat: -90, Lng: -180},
		{Lat: 37.5544, Lng: 126.9296},
	}
	for _, p := range valid {
		assert.NoError(t, p.Validate(), "%+v", p)
	}

	invalid := []Point{
		{Lat: 90.0001, Lng: 0},
		{Lat: -91, Lng: 0},
		{Lat: 0, Lng: 180.5},
		{Lat: 0, Lng: -181},
		{Lat: math.NaN(), Lng: 0},
	}
	for _, p := range invalid {
		err := p.Validate()
		require.Error(t, err, "%+v", p)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	}
}
