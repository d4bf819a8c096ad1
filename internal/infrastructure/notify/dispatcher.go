// Package notify асинхронно рассылает доменные события по каналам доставки.
package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/event"
	"github.com/ignatzorin/gigmarket-backend/internal/goroutine"
	"github.com/ignatzorin/gigmarket-backend/internal/logger"
)

// Sink - канал доставки событий.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, evt event.Event) error
}

type Options struct {
	Workers        int
	QueueSize      int
	DeliverTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.DeliverTimeout <= 0 {
		o.DeliverTimeout = 10 * time.Second
	}
	return o
}

type job struct {
	ctx context.Context
	evt event.Event
}

// Dispatcher реализует event.Notifier: события кладутся в буферизованную очередь
// и разбираются воркерами. При переполненной очереди событие теряется.
type Dispatcher struct {
	sinks   []Sink
	opts    Options
	queue   chan job
	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Int64
	now     func() time.Time
	log     *logrus.Entry
}

func NewDispatcher(opts Options, sinks ...Sink) *Dispatcher {
	opts = opts.withDefaults()
	return &Dispatcher{
		sinks: sinks,
		opts:  opts,
		queue: make(chan job, opts.QueueSize),
		now:   time.Now,
		log:   logger.Component("notify"),
	}
}

// Start запускает воркеров.
func (d *Dispatcher) Start() {
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		goroutine.SafeGo(fmt.Sprintf("notify-worker-%d", i), func() {
			defer d.wg.Done()
			for j := range d.queue {
				d.deliver(j)
			}
		})
	}
}

// Stop перестаёт принимать события и ждёт, пока воркеры разберут очередь.
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
		return fmt.Errorf("notify: очередь не разобрана до остановки: %w", ctx.Err())
	}
}

// Trigger не блокируется и не возвращает ошибок.
func (d *Dispatcher) Trigger(ctx context.Context, name event.Name, payload event.Payload) {
	evt := event.Event{Name: name, Payload: payload, OccurredAt: d.now().UTC()}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(evt, "диспетчер остановлен")
		return
	}

	// запрос может завершиться раньше доставки
	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), evt: evt}:
	default:
		d.drop(evt, "очередь уведомлений переполнена")
	}
}

// Dropped возвращает число потерянных событий.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) drop(evt event.Event, reason string) {
	d.dropped.Add(1)
	d.log.WithFields(logrus.Fields{
		"event":   evt.Name,
		"user_id": evt.Payload.UserID,
		"gig_id":  evt.Payload.GigID,
	}).Warn(reason)
}

func (d *Dispatcher) deliver(j job) {
	for _, sink := range d.sinks {
		d.deliverTo(j, sink)
	}
}

func (d *Dispatcher) deliverTo(j job, sink Sink) {
	fields := logrus.Fields{
		"sink":    sink.Name(),
		"event":   j.evt.Name,
		"user_id": j.evt.Payload.UserID,
	}
	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(fields).Errorf("panic при доставке уведомления: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(j.ctx, d.opts.DeliverTimeout)
	defer cancel()

	if err := sink.Deliver(ctx, j.evt); err != nil {
		d.log.WithError(err).WithFields(fields).Error("не удалось доставить уведомление")
	}
}
