package l2

import (
	"context"
	"errors"
	"testing"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-rates-cache/internal/config"
	"go-rates-cache/internal/interfaces/mock"
)

func TestMemcacheStore_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMemcacheClient(ctrl)
	store := NewMemcacheStore(config.Default(), client, zap.NewNop())

	client.EXPECT().Get("CURRENCIES").Return(&memcache.Item{Key: "CURRENCIES", Value: []byte(`{"USD":"US Dollar"}`)}, nil)

	val, found, err := store.Get(context.Background(), "CURRENCIES")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"USD":"US Dollar"}`), val)
}

func TestMemcacheStore_Get_Miss(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMemcacheClient(ctrl)
	store := NewMemcacheStore(config.Default(), client, zap.NewNop())

	client.EXPECT().Get("CURRENCIES").Return(nil, memcache.ErrCacheMiss)

	val, found, err := store.Get(context.Background(), "CURRENCIES")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestMemcacheStore_Get_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMemcacheClient(ctrl)
	store := NewMemcacheStore(config.Default(), client, zap.NewNop())

	client.EXPECT().Get("CURRENCIES").Return(nil, memcache.ErrNoServers)

	_, found, err := store.Get(context.Background(), "CURRENCIES")

	assert.ErrorIs(t, err, memcache.ErrNoServers)
	assert.False(t, found)
}

func TestMemcacheStore_Set(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMemcacheClient(ctrl)

	cfg := config.Default()
	cfg.KeyDB.Cache.TTL = 120
	store := NewMemcacheStore(cfg, client, zap.NewNop())

	client.EXPECT().Set(&memcache.Item{Key: "k", Value: []byte("v"), Expiration: 120}).Return(nil)
	assert.NoError(t, store.Set(context.Background(), "k", []byte("v")))

	setErr := errors.New("server error")
	client.EXPECT().Set(gomock.Any()).Return(setErr)
	assert.ErrorIs(t, store.Set(context.Background(), "k", []byte("v")), setErr)
}

func TestMemcacheStore_Ping(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockMemcacheClient(ctrl)
	store := NewMemcacheStore(config.Default(), client, zap.NewNop())

	client.EXPECT().Ping().Return(nil)
	assert.NoError(t, store.Ping(context.Background()))
}
