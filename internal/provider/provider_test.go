package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_SucceedsByDefault(t *testing.T) {
	p := NewMockProvider("mock")
	res, err := p.SendRequest(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "mock", res.Provider)
	assert.Equal(t, 1, p.CallCount())
}

func TestMockProvider_FailsThenSucceeds(t *testing.T) {
	p := &MockProvider{ProviderName: "flaky", FailTimes: 2, FailErr: errors.New("boom")}

	_, err := p.SendRequest(context.Background(), "x")
	assert.Error(t, err)
	_, err = p.SendRequest(context.Background(), "x")
	assert.Error(t, err)

	res, err := p.SendRequest(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "flaky", res.Provider)
	assert.Equal(t, 3, p.CallCount())
}

func TestMockProvider_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewMockProvider("mock")
	_, err := p.SendRequest(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry_GetAndNames(t *testing.T) {
	r := NewRegistry(NewMockProvider("a"), NewMockProvider("b"))
	_, ok := r.Get("a")
	assert.True(t, ok)
	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{"a", "b"}, r.Names())
}
