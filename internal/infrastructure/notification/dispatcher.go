// Package notification entrega códigos de verificação por email e SMS.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
)

// DispatchMetrics conta o resultado de cada mensagem
type DispatchMetrics interface {
	NotificationSent(channel string)
	NotificationFailed(channel string)
	NotificationDropped(channel string)
}

type nopDispatchMetrics struct{}

func (nopDispatchMetrics) NotificationSent(string)    {}
func (nopDispatchMetrics) NotificationFailed(string)  {}
func (nopDispatchMetrics) NotificationDropped(string) {}

// DispatcherConfig configura o pool de entrega
type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

type message struct {
	dest    ports.Destination
	subject string
	body    string
}

// Dispatcher implementa ports.Notifier com uma fila limitada e um número
// fixo de workers. Mensagens que não cabem na fila são descartadas.
type Dispatcher struct {
	senders     map[entities.AuthType]ports.MessageSender
	queue       chan message
	sendTimeout time.Duration
	metrics     DispatchMetrics
	logger      ports.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher cria o Dispatcher e inicia os workers
func NewDispatcher(cfg DispatcherConfig, senders map[entities.AuthType]ports.MessageSender, metrics DispatchMetrics, logger ports.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	if metrics == nil {
		metrics = nopDispatchMetrics{}
	}

	d := &Dispatcher{
		senders:     senders,
		queue:       make(chan message, cfg.QueueSize),
		sendTimeout: cfg.SendTimeout,
		metrics:     metrics,
		logger:      logger,
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}
	return d
}

// Send enfileira a mensagem sem bloquear
func (d *Dispatcher) Send(dest ports.Destination, subject, htmlBody string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	channel := string(dest.Channel)
	if d.closed {
		d.metrics.NotificationDropped(channel)
		d.logger.Warn("Notification dropped, dispatcher stopped", "channel", channel)
		return
	}

	select {
	case d.queue <- message{dest: dest, subject: subject, body: htmlBody}:
	default:
		d.metrics.NotificationDropped(channel)
		d.logger.Warn("Notification dropped, queue full", "channel", channel, "queue_size", cap(d.queue))
	}
}

// Stop fecha a fila e espera os workers terminarem o que já foi enfileirado
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg message) {
	channel := string(msg.dest.Channel)

	sender, ok := d.senders[msg.dest.Channel]
	if !ok {
		d.metrics.NotificationFailed(channel)
		d.logger.Error("No sender configured for channel", "channel", channel)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := sender.SendMessage(ctx, msg.dest.Address, msg.subject, msg.body); err != nil {
		d.metrics.NotificationFailed(channel)
		d.logger.Error("Failed to deliver notification", "channel", channel, "error", err)
		return
	}

	d.metrics.NotificationSent(channel)
	d.logger.Debug("Notification delivered", "channel", channel)
}
