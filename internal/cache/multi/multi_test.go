package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-rates-cache/internal/interfaces"
	"go-rates-cache/internal/interfaces/mock"
)

func setupMultiCache(t *testing.T, enablePropagation bool) (*MultiCache, *mock.MockCache, *mock.MockCache) {
	ctrl := gomock.NewController(t)
	cache1 := mock.NewMockCache(ctrl)
	cache2 := mock.NewMockCache(ctrl)
	multiCache := NewMultiCache([]interfaces.Cache{cache1, cache2}, zap.NewNop(), enablePropagation)
	return multiCache, cache1, cache2
}

func TestNewMultiCache(t *testing.T) {
	mc, cache1, cache2 := setupMultiCache(t, false)

	assert.Equal(t, 2, mc.GetCacheCount())
	assert.Equal(t, cache1, mc.caches[0])
	assert.Equal(t, cache2, mc.caches[1])
}

func TestMultiCache_Get_FirstCacheHit(t *testing.T) {
	mc, cache1, _ := setupMultiCache(t, true)
	ctx := context.Background()

	expectedVal := []byte("test-value")
	cache1.EXPECT().Get(ctx, "test-key").Return(expectedVal, true, nil).Times(1)
	// cache2.Get should not be called since cache1 has the value

	val, found, err := mc.Get(ctx, "test-key")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, expectedVal, val)
}

func TestMultiCache_Get_SecondCacheHit(t *testing.T) {
	mc, cache1, cache2 := setupMultiCache(t, false)
	ctx := context.Background()

	expectedVal := []byte("test-value")
	cache1.EXPECT().Get(ctx, "test-key").Return(nil, false, nil).Times(1)
	cache2.EXPECT().Get(ctx, "test-key").Return(expectedVal, true, nil).Times(1)

	val, found, err := mc.Get(ctx, "test-key")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, expectedVal, val)
}

func TestMultiCache_Get_SecondCacheHit_Propagates(t *testing.T) {
	mc, cache1, cache2 := setupMultiCache(t, true)
	ctx := context.Background()

	expectedVal := []byte("test-value")
	gomock.InOrder(
		cache1.EXPECT().Get(ctx, "test-key").Return(nil, false, nil),
		cache2.EXPECT().Get(ctx, "test-key").Return(expectedVal, true, nil),
		cache1.EXPECT().Set(ctx, "test-key", expectedVal).Return(nil),
	)

	val, found, err := mc.Get(ctx, "test-key")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, expectedVal, val)
}

func TestMultiCache_Get_AllCachesMiss(t *testing.T) {
	mc, cache1, cache2 := setupMultiCache(t, true)
	ctx := context.Background()

	cache1.EXPECT().Get(ctx, "test-key").Return(nil, false, nil)
	cache2.EXPECT().Get(ctx, "test-key").Return(nil, false, nil)

	val, found, err := mc.Get(ctx, "test-key")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestMultiCache_Get_FailingLevelIsSkipped(t *testing.T) {
	mc, cache1, cache2 := setupMultiCache(t, false)
	ctx := context.Background()

	cache1.EXPECT().Get(ctx, "test-key").Return(nil, false, errors.New("l1 broken"))
	cache2.EXPECT().Get(ctx, "test-key").Return([]byte("v"), true, nil)

	val, found, err := mc.Get(ctx, "test-key")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), val)
}

func TestMultiCache_Get_AllLevelsFail(t *testing.T) {
	mc, cache1, cache2 := setupMultiCache(t, false)
	ctx := context.Background()

	l2Err := errors.New("connection refused")
	cache1.EXPECT().Get(ctx, "test-key").Return(nil, false, errors.New("l1 broken"))
	cache2.EXPECT().Get(ctx, "test-key").Return(nil, false, l2Err)

	_, found, err := mc.Get(ctx, "test-key")

	assert.False(t, found)
	assert.ErrorIs(t, err, l2Err)
}

func TestMultiCache_Set_AllCaches(t *testing.T) {
	mc, cache1, cache2 := setupMultiCache(t, false)
	ctx := context.Background()

	cache1.EXPECT().Set(ctx, "test-key", []byte("v")).Return(nil)
	cache2.EXPECT().Set(ctx, "test-key", []byte("v")).Return(nil)

	assert.NoError(t, mc.Set(ctx, "test-key", []byte("v")))
}

func TestMultiCache_Set_ErrorStillWritesOtherLevels(t *testing.T) {
	mc, cache1, cache2 := setupMultiCache(t, false)
	ctx := context.Background()

	setErr := errors.New("write rejected")
	cache1.EXPECT().Set(ctx, "test-key", []byte("v")).Return(nil)
	cache2.EXPECT().Set(ctx, "test-key", []byte("v")).Return(setErr)

	assert.ErrorIs(t, mc.Set(ctx, "test-key", []byte("v")), setErr)
}

func TestMultiCache_EmptyCaches(t *testing.T) {
	mc := NewMultiCache(nil, zap.NewNop(), false)
	ctx := context.Background()

	val, found, err := mc.Get(ctx, "test-key")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)

	assert.NoError(t, mc.Set(ctx, "test-key", []byte("v")))
	assert.NoError(t, mc.Ping(ctx))
}

func TestMultiCache_Ping(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock.NewMockCache(ctrl)
	pinger := mock.NewMockPinger(ctrl)

	downErr := errors.New("down")
	pinger.EXPECT().Ping(gomock.Any()).Return(downErr)

	mc := NewMultiCache([]interfaces.Cache{cache, pingableCache{MockCache: mock.NewMockCache(ctrl), MockPinger: pinger}}, zap.NewNop(), false)

	assert.ErrorIs(t, mc.Ping(context.Background()), downErr)
}

type pingableCache struct {
	*mock.MockCache
	*mock.MockPinger
}
