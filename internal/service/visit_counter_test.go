package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKVStore struct {
	mock.Mock
}

func (m *MockKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKVStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// memoryKV is a map-backed KVStore.
type memoryKV map[string]string

func (m memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memoryKV) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func TestRecordVisitCountsOncePerVisitor(t *testing.T) {
	ctx := context.Background()
	counter := NewVisitCounter(memoryKV{})

	count, counted, err := counter.RecordVisit(ctx, "alpha")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 1, count)

	count, counted, err = counter.RecordVisit(ctx, "alpha")
	require.NoError(t, err)
	assert.False(t, counted)
	assert.Equal(t, 1, count)

	count, counted, err = counter.RecordVisit(ctx, "beta")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 2, count)

	total, err := counter.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestRecordVisitWritesMarkerAndCount(t *testing.T) {
	ctx := context.Background()
	store := new(MockKVStore)
	store.On("Get", ctx, "visitCount").Return("41", true, nil)
	store.On("Get", ctx, "visited:alpha").Return("", false, nil)
	store.On("Set", ctx, "visitCount", "42").Return(nil)
	store.On("Set", ctx, "visited:alpha", "true").Return(nil)

	count, counted, err := NewVisitCounter(store).RecordVisit(ctx, "alpha")

	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 42, count)
	store.AssertExpectations(t)
}

func TestRecordVisitStoreFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	store := new(MockKVStore)
	store.On("Get", ctx, "visitCount").Return("", false, nil)
	store.On("Get", ctx, "visited:alpha").Return("", false, nil)
	store.On("Set", ctx, "visitCount", "1").Return(boom)

	_, _, err := NewVisitCounter(store).RecordVisit(ctx, "alpha")

	assert.ErrorIs(t, err, boom)
	store.AssertNotCalled(t, "Set", ctx, "visited:alpha", "true")
}

func TestCountRejectsCorruptValue(t *testing.T) {
	ctx := context.Background()
	store := new(MockKVStore)
	store.On("Get", ctx, "visitCount").Return("many", true, nil)

	_, err := NewVisitCounter(store).Count(ctx)
	assert.Error(t, err)
}
