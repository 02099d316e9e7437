package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Deliverer appends a single notice to one user's persisted list.
type Deliverer interface {
	Deliver(ctx context.Context, username string, notice domain.Notification) error
}

// Delivery is one notice addressed to one recipient.
type Delivery struct {
	Username string
	Notice   domain.Notification
}

// Dispatcher fans broadcast deliveries out to a fixed set of workers,
// sharded by recipient username. Deliveries for the same user always land on
// the same worker, so a user's notification list is never written by two
// workers at once and keeps its send order.
type Dispatcher struct {
	workers   []chan Delivery
	deliverer Deliverer
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, deliverer Deliverer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan Delivery, numWorkers),
		deliverer: deliverer,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Delivery, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a delivery to the worker responsible for its recipient.
// Non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(delivery Delivery) {
	d.workers[d.shardIndex(delivery.Username)] <- delivery
}

// EnqueueBatch enqueues multiple deliveries preserving per-user ordering.
func (d *Dispatcher) EnqueueBatch(deliveries []Delivery) {
	for _, dv := range deliveries {
		d.Enqueue(dv)
	}
}

func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-ch:
			if !ok {
				return
			}
			if err := d.deliverer.Deliver(ctx, delivery.Username, delivery.Notice); err != nil {
				d.log.Error().Err(err).
					Str("username", delivery.Username).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}
