// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEventType_String(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
	}{
		{eventType: EventStarted, expected: "started"},
		{eventType: EventProgress, expected: "progress"},
		{eventType: EventLog, expected: "log"},
		{eventType: EventOutput, expected: "output"},
		{eventType: EventCompleted, expected: "completed"},
		{eventType: EventFailed, expected: "failed"},
		{eventType: EventMissing, expected: "missing"},
		{eventType: EventLoadFailed, expected: "load_failed"},
		{eventType: EventUnknown, expected: "unknown"},
		{eventType: EventType(999), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.String())

			parsed, ok := ParseEventType(tt.expected)
			if tt.expected == "unknown" {
				assert.False(t, ok)
				assert.Equal(t, EventUnknown, parsed)

				return
			}

			assert.True(t, ok)
			assert.Equal(t, tt.eventType, parsed)
		})
	}
}

func TestEventType_Terminal(t *testing.T) {
	terminal := []EventType{EventCompleted, EventFailed, EventMissing, EventLoadFailed}
	nonTerminal := []EventType{EventUnknown, EventStarted, EventProgress, EventLog, EventOutput}

	for _, et := range terminal {
		assert.True(t, et.Terminal(), et.String())
	}

	for _, et := range nonTerminal {
		assert.False(t, et.Terminal(), et.String())
	}
}

func TestNullReporter(t *testing.T) {
	reporter := NewNullReporter()
	require.NotNil(t, reporter)

	reporter.Report(Event{Type: EventStarted, Timestamp: time.Now()})
	reporter.Close()
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func TestChannelReporter_DeliversInOrder(t *testing.T) {
	reporter := NewChannelReporter(context.Background(), 1)
	rec := &recorder{}
	reporter.Listen(rec)

	const n = 50
	for i := range n {
		reporter.Report(Event{Type: EventProgress, Completed: float64(i)})
	}

	reporter.Close()

	require.Len(t, rec.events, n)

	for i, ev := range rec.events {
		assert.InDelta(t, float64(i), ev.Completed, 0)
	}
}

func TestChannelReporter_ConcurrentReporters(t *testing.T) {
	reporter := NewChannelReporter(context.Background(), 4)

	var count int

	reporter.Listen(ListenerFunc(func(Event) { count++ }))

	var wg sync.WaitGroup

	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 25 {
				reporter.Report(Event{Type: EventOutput})
			}
		}()
	}

	wg.Wait()
	reporter.Close()

	assert.Equal(t, 100, count)
}

func TestChannelReporter_DropsAfterClose(t *testing.T) {
	reporter := NewChannelReporter(context.Background(), 1)
	reporter.Close()
	reporter.Close()

	reporter.Report(Event{Type: EventCompleted})

	_, ok := <-reporter.Events()
	assert.False(t, ok)
}

func TestChannelReporter_CancelledContextUnblocks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reporter := NewChannelReporter(ctx, 0)

	done := make(chan struct{})

	go func() {
		defer close(done)
		reporter.Report(Event{Type: EventStarted})
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Report did not return after cancellation")
	}

	reporter.Close()
}
