package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onramp-pay/onramp/model"
)

func TestRedisCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := newRedisCache(mr.Addr())
	require.NoError(t, err)

	ctx := context.Background()
	account := model.GatewayAccount{
		AccountID: "acct_1",
		Type:      model.AccountTypeLive,
		Provider:  model.ProviderWorldpay,
	}

	err = c.Set(ctx, "account:acct_1", account, time.Minute)
	assert.NoError(t, err)

	var got model.GatewayAccount
	err = c.Get(ctx, "account:acct_1", &got)
	assert.NoError(t, err)
	assert.Equal(t, account.AccountID, got.AccountID)
	assert.Equal(t, account.Provider, got.Provider)
}

func TestRedisCache_MissLeavesTargetUntouched(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := newRedisCache(mr.Addr())
	require.NoError(t, err)

	var got model.GatewayAccount
	err = c.Get(context.Background(), "account:missing", &got)
	assert.NoError(t, err)
	assert.Empty(t, got.AccountID)
}

func TestRedisCache_Delete(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := newRedisCache(mr.Addr())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))

	var got string
	assert.NoError(t, c.Get(ctx, "k", &got))
	assert.Empty(t, got)
}
