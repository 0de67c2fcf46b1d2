package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/mortuary_billing_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls int
	err   error
}

func (l *countingLoader) load(_ context.Context, caseID string) (*domain.Case, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return &domain.Case{CaseID: caseID, DeceasedName: "Jane Doe"}, nil
}

func TestCaseCache_ReadThrough(t *testing.T) {
	c := NewCaseCache(10, time.Minute)
	loader := &countingLoader{}

	first, err := c.Get(context.Background(), "MC-1", loader.load)
	require.NoError(t, err)
	second, err := c.Get(context.Background(), "MC-1", loader.load)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, first.CaseID, second.CaseID)
	assert.Equal(t, 1, c.Len())
}

func TestCaseCache_InvalidateForcesReload(t *testing.T) {
	c := NewCaseCache(10, time.Minute)
	loader := &countingLoader{}

	_, err := c.Get(context.Background(), "MC-1", loader.load)
	require.NoError(t, err)
	c.Invalidate("MC-1")
	_, err = c.Get(context.Background(), "MC-1", loader.load)
	require.NoError(t, err)

	assert.Equal(t, 2, loader.calls)
}

func TestCaseCache_ErrorsAreNotCached(t *testing.T) {
	c := NewCaseCache(10, time.Minute)
	loader := &countingLoader{err: errors.New("db down")}

	_, err := c.Get(context.Background(), "MC-1", loader.load)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	loader.err = nil
	got, err := c.Get(context.Background(), "MC-1", loader.load)
	require.NoError(t, err)
	assert.Equal(t, "MC-1", got.CaseID)
	assert.Equal(t, 2, loader.calls)
}

func TestCaseCache_InvalidateDuringLoadDropsResult(t *testing.T) {
	c := NewCaseCache(10, time.Minute)
	calls := 0
	stale := func(_ context.Context, caseID string) (*domain.Case, error) {
		calls++
		// A write lands and invalidates while this read is in flight.
		c.Invalidate(caseID)
		return &domain.Case{CaseID: caseID, Status: domain.CaseInStorage}, nil
	}

	got, err := c.Get(context.Background(), "MC-1", stale)
	require.NoError(t, err)
	assert.Equal(t, domain.CaseInStorage, got.Status)
	assert.Equal(t, 0, c.Len())

	loader := &countingLoader{}
	_, err = c.Get(context.Background(), "MC-1", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, calls)
}

func TestCaseCache_EntriesExpire(t *testing.T) {
	c := NewCaseCache(10, 20*time.Millisecond)
	loader := &countingLoader{}

	_, err := c.Get(context.Background(), "MC-1", loader.load)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestNewCaseCache_Defaults(t *testing.T) {
	c := NewCaseCache(0, 0)
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}
