package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventOrderResolved, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("note delivery failed")
	})
	d.Subscribe(EventOrderResolved, func(ctx context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventSplitShipmentDetected, func(ctx context.Context, e Event) error {
		calls = append(calls, "split")
		return nil
	})

	err := d.Publish(context.Background(), New(EventOrderResolved, "t-1", time.Now(), nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "note delivery failed")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestNewAssignsDistinctIDs(t *testing.T) {
	at := time.Date(2025, time.December, 18, 0, 0, 0, 0, time.UTC)
	a := New(EventOrderResolved, "t-1", at, nil)
	b := New(EventOrderResolved, "t-1", at, nil)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, at, a.Timestamp)
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), a))
}
