package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// DepthGauge tracks how many events wait in the worker queues.
type DepthGauge interface {
	Inc()
	Dec()
}

// Dispatcher routes status history events to a fixed set of workers using
// consistent hashing on the order id, which keeps each order's timeline in
// submission order.
type Dispatcher struct {
	workers []chan domain.OrderEvent
	service ports.HistoryService
	depth   DepthGauge
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.HistoryService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.OrderEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.OrderEvent, channelBuffer)
	}
	return d
}

// WithDepthGauge reports queue depth to g.
func (d *Dispatcher) WithDepthGauge(g DepthGauge) *Dispatcher {
	d.depth = g
	return d
}

// Start launches all worker goroutines. Workers drain their queue and stop
// once Stop is called; ctx bounds each individual write.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the queues and waits for the workers to drain them. Enqueue
// must not be called afterwards.
func (d *Dispatcher) Stop() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// Enqueue sends an event to the worker responsible for its order.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event domain.OrderEvent) {
	if d.depth != nil {
		d.depth.Inc()
	}
	d.workers[d.shardIndex(event.OrderID)] <- event
}

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(orderID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.OrderEvent) {
	defer d.wg.Done()
	for event := range ch {
		if d.depth != nil {
			d.depth.Dec()
		}
		if err := d.service.Record(context.WithoutCancel(ctx), event); err != nil {
			d.log.Error().Err(err).
				Int64("order_id", event.OrderID).
				Str("status", string(event.Status)).
				Int("worker_id", id).
				Msg("history write failed")
		}
	}
}
