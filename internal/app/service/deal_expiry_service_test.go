package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"store-search-service/pkg/clock"
)

func TestDealExpiryService_ExpireEnded(t *testing.T) {
	deals := &fakeDeals{expired: 2}
	cache := newMemCache()
	svc := NewDealExpiryService(deals, cache, clock.NewFixed(testNow), zap.NewNop())

	n, err := svc.ExpireEnded(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), n)
	require.Len(t, deals.at, 1)
	assert.True(t, deals.at[0].Equal(testNow))
	assert.Equal(t, []string{"search:", "morning-sale:"}, cache.cleared)
}

func TestDealExpiryService_NothingToExpire(t *testing.T) {
	cache := newMemCache()
	svc := NewDealExpiryService(&fakeDeals{}, cache, clock.NewFixed(testNow), zap.NewNop())

	n, err := svc.ExpireEnded(context.Background())
	require.NoError(t, err)

	assert.Zero(t, n)
	assert.Empty(t, cache.cleared)
}

func TestDealExpiryService_Error(t *testing.T) {
	boom := errors.New("read only transaction")
	svc := NewDealExpiryService(&fakeDeals{err: boom}, nil, clock.NewFixed(testNow), zap.NewNop())

	_, err := svc.ExpireEnded(context.Background())
	assert.ErrorIs(t, err, boom)
}
