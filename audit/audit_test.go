package audit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/wardkeep/clock"
)

func newTestLog(capacity int, opts ...Option) *Log {
	clk := clock.NewManual(time.Unix(1_700_000_000, 0))
	return NewLog(capacity, clk, opts...)
}

func TestRecordAndEvents(t *testing.T) {
	l := newTestLog(10)

	l.Record(EventLoginAttempt, SeverityLow, map[string]any{"user_id": "u1"})
	l.Record(EventCSRFMismatch, SeverityHigh, nil)

	events := l.Events("")
	require.Len(t, events, 2)
	assert.Equal(t, EventLoginAttempt, events[0].Type)
	assert.Equal(t, EventCSRFMismatch, events[1].Type)
	assert.Equal(t, "u1", events[0].Details["user_id"])
	assert.NotEmpty(t, events[0].ID)
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestEvents_TypeFilter(t *testing.T) {
	l := newTestLog(10)

	l.Record(EventLoginAttempt, SeverityLow, nil)
	l.Record(EventLogout, SeverityLow, nil)
	l.Record(EventLoginAttempt, SeverityLow, nil)

	events := l.Events(EventLoginAttempt)
	require.Len(t, events, 2)
	for _, evt := range events {
		assert.Equal(t, EventLoginAttempt, evt.Type)
	}
}

func TestCapacity_DropsOldest(t *testing.T) {
	l := newTestLog(3)

	for i := 0; i < 5; i++ {
		l.Record(EventValidationAttempt, SeverityLow, map[string]any{"seq": i})
	}

	events := l.Events("")
	require.Len(t, events, 3)
	assert.Equal(t, 2, events[0].Details["seq"])
	assert.Equal(t, 4, events[2].Details["seq"])
}

func TestCriticalTriggersAlert(t *testing.T) {
	var alerts []Event
	l := newTestLog(10, WithAlertFunc(func(evt Event) {
		alerts = append(alerts, evt)
	}))

	l.Record(EventSuspiciousActivity, SeverityHigh, nil)
	assert.Empty(t, alerts)

	l.Record(EventSuspiciousActivity, SeverityCritical, nil)
	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
}

func TestClear(t *testing.T) {
	l := newTestLog(10)

	l.Record(EventLogout, SeverityLow, nil)
	l.Clear()

	assert.Empty(t, l.Events(""))
}

func TestConcurrentRecord(t *testing.T) {
	l := newTestLog(1000)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				l.Record(EventValidationAttempt, SeverityLow, map[string]any{
					"worker": fmt.Sprintf("w%d", n),
				})
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Len(t, l.Events(""), 400)
}
