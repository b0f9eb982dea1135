package hub_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/miosbridge/internal/hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedEnumerator struct {
	mu    sync.Mutex
	steps [][]hub.Entity
	index int
}

func (s *scriptedEnumerator) Enumerate(_ context.Context) ([]hub.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.steps) {
		return s.steps[len(s.steps)-1], nil
	}
	entities := s.steps[s.index]
	s.index++
	return entities, nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []hub.ChangeEvent
}

func (r *eventRecorder) record(event hub.ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) recorded() []hub.ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hub.ChangeEvent(nil), r.events...)
}

func entityWith(id int, class, attribute, value string) hub.Entity {
	return hub.Entity{
		ID: id,
		States: []hub.AttributeState{
			{Class: class, Attribute: attribute, Value: value, Observed: time.Unix(1700000000, 0)},
		},
	}
}

func TestPollerSubscribeValidation(t *testing.T) {
	poller := hub.NewPoller(&scriptedEnumerator{}, time.Second)

	require.Error(t, poller.Subscribe("", func(hub.ChangeEvent) {}))
	require.Error(t, poller.Subscribe("SwitchPower", nil))
	require.NoError(t, poller.Subscribe("SwitchPower", func(hub.ChangeEvent) {}))
}

func TestPollerDispatchesChanges(t *testing.T) {
	enum := &scriptedEnumerator{steps: [][]hub.Entity{
		{entityWith(5, "SwitchPower", "Status", "1")},
		{entityWith(5, "SwitchPower", "Status", "0")},
	}}
	poller := hub.NewPoller(enum, 5*time.Millisecond)

	recorder := &eventRecorder{}
	require.NoError(t, poller.Subscribe("SwitchPower", recorder.record))

	// Baseline handed over by the caller; the first poll diffs against it
	first, err := enum.Enumerate(context.Background())
	require.NoError(t, err)
	poller.Prime(first)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = poller.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return len(recorder.recorded()) >= 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	events := recorder.recorded()
	require.NotEmpty(t, events)
	event := events[0]
	assert.Equal(t, 5, event.EntityID)
	assert.Equal(t, "SwitchPower", event.Class)
	assert.Equal(t, "Status", event.Attribute)
	require.NotNil(t, event.OldValue)
	assert.Equal(t, "1", *event.OldValue)
	require.NotNil(t, event.NewValue)
	assert.Equal(t, "0", *event.NewValue)
}

func TestPollerIgnoresUnsubscribedClasses(t *testing.T) {
	enum := &scriptedEnumerator{steps: [][]hub.Entity{
		{entityWith(1, "Dimming", "LoadLevelStatus", "10")},
		{entityWith(1, "Dimming", "LoadLevelStatus", "90")},
	}}
	poller := hub.NewPoller(enum, 5*time.Millisecond)

	recorder := &eventRecorder{}
	require.NoError(t, poller.Subscribe("SwitchPower", recorder.record))

	first, err := enum.Enumerate(context.Background())
	require.NoError(t, err)
	poller.Prime(first)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = poller.Run(ctx)

	assert.Empty(t, recorder.recorded())
}

func TestPollerReportsDroppedAttribute(t *testing.T) {
	enum := &scriptedEnumerator{steps: [][]hub.Entity{
		{entityWith(5, "SwitchPower", "Status", "1")},
		{{ID: 5}},
	}}
	poller := hub.NewPoller(enum, 5*time.Millisecond)

	recorder := &eventRecorder{}
	require.NoError(t, poller.Subscribe("SwitchPower", recorder.record))

	first, err := enum.Enumerate(context.Background())
	require.NoError(t, err)
	poller.Prime(first)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = poller.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return len(recorder.recorded()) >= 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	event := recorder.recorded()[0]
	require.NotNil(t, event.OldValue)
	assert.Equal(t, "1", *event.OldValue)
	assert.Nil(t, event.NewValue, "dropped attributes carry no new value")
}
