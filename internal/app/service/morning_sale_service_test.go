package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"store-search-service/internal/domain"
	"store-search-service/pkg/clock"
)

func TestMorningSaleService_ListMorningSales(t *testing.T) {
	repo := &fakeMorningSales{sales: []domain.MorningSale{
		{StoreID: "s1", StoreName: "Store A", DealID: "d1", DisplayText: "아메리카노 30% 할인"},
	}}
	svc := NewMorningSaleService(repo, nil, clock.NewFixed(testNow), 0, 0, zap.NewNop())

	sales, err := svc.ListMorningSales(context.Background())
	require.NoError(t, err)

	assert.Equal(t, repo.sales, sales)
	require.Len(t, repo.at, 1)
	assert.True(t, repo.at[0].Equal(testNow), "deal validity is evaluated at the clock's instant")
	assert.Equal(t, []int{domain.DefaultMorningSaleLimit}, repo.limits)
}

func TestMorningSaleService_NoDealsIsEmptyList(t *testing.T) {
	svc := NewMorningSaleService(&fakeMorningSales{}, nil, clock.NewFixed(testNow), 0, 5, zap.NewNop())

	sales, err := svc.ListMorningSales(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, sales)
	assert.Empty(t, sales)
}

func TestMorningSaleService_Cache(t *testing.T) {
	repo := &fakeMorningSales{sales: []domain.MorningSale{{StoreID: "s1", StoreName: "Store A"}}}
	cache := newMemCache()
	now := clock.NewFixed(testNow)
	svc := NewMorningSaleService(repo, cache, now, time.Minute, 10, zap.NewNop())

	for i := 0; i < 2; i++ {
		sales, err := svc.ListMorningSales(context.Background())
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, "Store A", sales[0].StoreName)
	}
	assert.Len(t, repo.at, 1, "second call is served from cache")

	now.Set(testNow.Add(time.Minute))
	_, err := svc.ListMorningSales(context.Background())
	require.NoError(t, err)
	assert.Len(t, repo.at, 2, "the next window reads the database again")
}

func TestMorningSaleService_Error(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewMorningSaleService(&fakeMorningSales{err: boom}, nil, clock.NewFixed(testNow), 0, 0, zap.NewNop())

	_, err := svc.ListMorningSales(context.Background())
	assert.ErrorIs(t, err, boom)
}
