package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesHandlersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventLeadAssigned, func(context.Context, Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(EventLeadAssigned, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventLeadConverted, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLeadAssigned})
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcherReturnsFirstErrorButRunsAll(t *testing.T) {
	d := NewInMemoryDispatcher()
	first := errors.New("first failure")
	ran := 0

	d.Subscribe(EventMessageSent, func(context.Context, Event) error {
		ran++
		return first
	})
	d.Subscribe(EventMessageSent, func(context.Context, Event) error {
		ran++
		return errors.New("second failure")
	})

	err := d.Publish(context.Background(), Event{Type: EventMessageSent})
	require.ErrorIs(t, err, first)
	require.Equal(t, 2, ran)
}

func TestDispatcherNoHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventAgentApproved}))
}
