package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/logging"
)

type delivery struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	mu        sync.Mutex
	delivered []delivery
	err       error
	block     chan struct{}
}

func (s *fakeSender) SendMessage(ctx context.Context, to, subject, body string) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.delivered = append(s.delivered, delivery{to: to, subject: subject, body: body})
	return nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

type countingMetrics struct {
	mu      sync.Mutex
	sent    map[string]int
	failed  map[string]int
	dropped map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{sent: map[string]int{}, failed: map[string]int{}, dropped: map[string]int{}}
}

func (m *countingMetrics) NotificationSent(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[channel]++
}

func (m *countingMetrics) NotificationFailed(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[channel]++
}

func (m *countingMetrics) NotificationDropped(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped[channel]++
}

func (m *countingMetrics) snapshot(kind, channel string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch kind {
	case "sent":
		return m.sent[channel]
	case "failed":
		return m.failed[channel]
	default:
		return m.dropped[channel]
	}
}

func emailTo(address string) ports.Destination {
	return ports.Destination{Channel: entities.AuthTypeEmail, Address: address}
}

func TestDispatcher_RoutesByChannel(t *testing.T) {
	email := &fakeSender{}
	phone := &fakeSender{}
	metrics := newCountingMetrics()

	d := NewDispatcher(DispatcherConfig{Workers: 2, QueueSize: 10, SendTimeout: time.Second},
		map[entities.AuthType]ports.MessageSender{
			entities.AuthTypeEmail: email,
			entities.AuthTypePhone: phone,
		}, metrics, logging.NewNopLogger())

	d.Send(emailTo("a@example.com"), "subject", "<p>1234</p>")
	d.Send(ports.Destination{Channel: entities.AuthTypePhone, Address: "+998901234567"}, "subject", "1234")

	require.NoError(t, d.Stop(context.Background()))

	require.Equal(t, 1, email.count())
	assert.Equal(t, delivery{to: "a@example.com", subject: "subject", body: "<p>1234</p>"}, email.delivered[0])
	require.Equal(t, 1, phone.count())
	assert.Equal(t, "+998901234567", phone.delivered[0].to)
	assert.Equal(t, 1, metrics.snapshot("sent", "email"))
	assert.Equal(t, 1, metrics.snapshot("sent", "phone"))
}

func TestDispatcher_DropsWhenQueueIsFull(t *testing.T) {
	sender := &fakeSender{block: make(chan struct{})}
	metrics := newCountingMetrics()

	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 1, SendTimeout: 5 * time.Second},
		map[entities.AuthType]ports.MessageSender{entities.AuthTypeEmail: sender},
		metrics, logging.NewNopLogger())

	// o primeiro ocupa o worker, o segundo a fila
	d.Send(emailTo("1@example.com"), "s", "b")
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, 5*time.Millisecond)
	d.Send(emailTo("2@example.com"), "s", "b")

	start := time.Now()
	d.Send(emailTo("3@example.com"), "s", "b")
	assert.Less(t, time.Since(start), 100*time.Millisecond, "Send must not block")
	assert.Equal(t, 1, metrics.snapshot("dropped", "email"))

	close(sender.block)
	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, 2, sender.count())
}

func TestDispatcher_CountsFailures(t *testing.T) {
	metrics := newCountingMetrics()
	sender := &fakeSender{err: errors.New("smtp down")}

	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 4},
		map[entities.AuthType]ports.MessageSender{entities.AuthTypeEmail: sender},
		metrics, logging.NewNopLogger())

	d.Send(emailTo("a@example.com"), "s", "b")
	d.Send(ports.Destination{Channel: entities.AuthTypePhone, Address: "+998901234567"}, "s", "b")
	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, 1, metrics.snapshot("failed", "email"))
	assert.Equal(t, 1, metrics.snapshot("failed", "phone"), "missing sender counts as failure")
}

func TestDispatcher_SendTimeout(t *testing.T) {
	metrics := newCountingMetrics()
	sender := &fakeSender{block: make(chan struct{})}

	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 1, SendTimeout: 20 * time.Millisecond},
		map[entities.AuthType]ports.MessageSender{entities.AuthTypeEmail: sender},
		metrics, logging.NewNopLogger())

	d.Send(emailTo("slow@example.com"), "s", "b")
	require.NoError(t, d.Stop(context.Background()))

	assert.Equal(t, 1, metrics.snapshot("failed", "email"))
	assert.Zero(t, sender.count())
}

func TestDispatcher_Stop(t *testing.T) {
	metrics := newCountingMetrics()
	sender := &fakeSender{block: make(chan struct{})}

	d := NewDispatcher(DispatcherConfig{Workers: 1, QueueSize: 2, SendTimeout: time.Minute},
		map[entities.AuthType]ports.MessageSender{entities.AuthTypeEmail: sender},
		metrics, logging.NewNopLogger())

	d.Send(emailTo("a@example.com"), "s", "b")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)

	// depois de parado, Send descarta sem pânico
	d.Send(emailTo("late@example.com"), "s", "b")
	assert.Equal(t, 1, metrics.snapshot("dropped", "email"))

	close(sender.block)
	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, 1, sender.count())
}
