package service

import (
	"bytes"
	"context"
	"encoding/json"
	"hash/fnv"
	"log"
	"net/http"
	"sync"
	"time"

	"dispatch/internal/config"
	"dispatch/internal/domain"
)

// Sink identifies one of the three external notification targets.
type Sink string

const (
	SinkDriver    Sink = "DRIVER"
	SinkPassenger Sink = "PASSENGER"
	SinkGroup     Sink = "GROUP"
)

// NotifierInterface defines the outbound notification contract.
// Enqueue methods never block the caller's transition and never fail it.
type NotifierInterface interface {
	NotifyPassenger(order *domain.Order, req *domain.TripRequest)
	NotifyDriver(order *domain.Order, req *domain.TripRequest)
	NotifyDriverPool(order *domain.Order, req *domain.TripRequest, drivers []*domain.Driver)
	BroadcastGroup(order *domain.Order, req *domain.TripRequest)
	Close()
}

// Ensure Notifier implements NotifierInterface.
var _ NotifierInterface = (*Notifier)(nil)

// OrderContent is the request-level detail embedded in a notification.
type OrderContent struct {
	RouteID    string `json:"route_id"`
	TariffID   string `json:"tariff_id"`
	Price      int64  `json:"price"`
	Cashback   int64  `json:"cashback"`
	Comment    string `json:"comment,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	CreatedAt  string `json:"created_at"`
	Passengers int    `json:"passengers,omitempty"`
	HasWoman   bool   `json:"has_woman,omitempty"`
}

// OrderPayload is the JSON body delivered to the driver and passenger sinks.
type OrderPayload struct {
	ID         string       `json:"id"`
	Requester  int64        `json:"requester"`
	Driver     string       `json:"driver,omitempty"`
	Status     string       `json:"status"`
	OrderType  string       `json:"order_type"`
	Content    OrderContent `json:"content"`
	Recipients []int64      `json:"recipients,omitempty"` // driver pool fan-out
}

// GroupPayload is the JSON body delivered to the group chat sink.
type GroupPayload struct {
	Text string `json:"text"`
}

// notification is one queued delivery job. Jobs sharing an order key are
// consumed by the same worker, preserving per-order causal order.
type notification struct {
	Sink     Sink
	OrderKey string
	Body     any
}

// Notifier delivers order notifications to the external bot services.
// Delivery is asynchronous with bounded retry; failures are logged and
// dropped, never surfaced to the triggering transition.
type Notifier struct {
	cfg    config.NotifierConfig
	client *http.Client

	queues []chan notification
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// NewNotifier creates a Notifier with its worker pool running.
// The HTTP client is injected so tests can point it at fakes.
func NewNotifier(cfg config.NotifierConfig, client *http.Client) *Notifier {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.RequestTimeout}
	}

	n := &Notifier{
		cfg:    cfg,
		client: client,
		queues: make([]chan notification, cfg.Workers),
	}

	for i := range n.queues {
		n.queues[i] = make(chan notification, cfg.QueueSize)
		n.wg.Add(1)
		go n.worker(n.queues[i])
	}

	return n
}

// NotifyPassenger enqueues an order notification for the passenger bot.
func (n *Notifier) NotifyPassenger(order *domain.Order, req *domain.TripRequest) {
	n.enqueue(notification{
		Sink:     SinkPassenger,
		OrderKey: order.ID,
		Body:     BuildOrderPayload(order, req),
	})
}

// NotifyDriver enqueues an order notification for the assigned driver's bot.
func (n *Notifier) NotifyDriver(order *domain.Order, req *domain.TripRequest) {
	n.enqueue(notification{
		Sink:     SinkDriver,
		OrderKey: order.ID,
		Body:     BuildOrderPayload(order, req),
	})
}

// NotifyDriverPool enqueues a new-order notification fanned out to the
// online drivers serving the request's route.
func (n *Notifier) NotifyDriverPool(order *domain.Order, req *domain.TripRequest, drivers []*domain.Driver) {
	payload := BuildOrderPayload(order, req)
	for _, d := range drivers {
		payload.Recipients = append(payload.Recipients, d.TelegramID)
	}

	n.enqueue(notification{
		Sink:     SinkDriver,
		OrderKey: order.ID,
		Body:     payload,
	})
}

// BroadcastGroup enqueues a human-readable summary for the operations chat.
func (n *Notifier) BroadcastGroup(order *domain.Order, req *domain.TripRequest) {
	n.enqueue(notification{
		Sink:     SinkGroup,
		OrderKey: order.ID,
		Body:     GroupPayload{Text: BroadcastMessage(order, req)},
	})
}

// Close drains the queues and stops the workers.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		for _, q := range n.queues {
			close(q)
		}
	})
	n.wg.Wait()
}

// enqueue routes a job to the worker owning its order key. A full queue
// drops the notification rather than blocking the transition.
func (n *Notifier) enqueue(job notification) {
	q := n.queues[n.workerIndex(job.OrderKey)]
	select {
	case q <- job:
	default:
		log.Printf("[NOTIFY] queue full, dropping sink=%s order=%s", job.Sink, job.OrderKey)
	}
}

// workerIndex hashes the order key so all of one order's notifications
// land on the same worker.
func (n *Notifier) workerIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(n.queues)))
}

func (n *Notifier) worker(queue <-chan notification) {
	defer n.wg.Done()
	for job := range queue {
		n.deliver(job)
	}
}

// deliver posts a notification to its sink, retrying up to MaxAttempts
// with fixed backoff, then drops it with a logged alert.
func (n *Notifier) deliver(job notification) {
	url := n.sinkURL(job.Sink)
	if url == "" {
		log.Printf("[NOTIFY] no endpoint configured for sink=%s, dropping order=%s", job.Sink, job.OrderKey)
		return
	}

	body, err := json.Marshal(job.Body)
	if err != nil {
		log.Printf("[NOTIFY] marshal failed sink=%s order=%s: %v", job.Sink, job.OrderKey, err)
		return
	}

	for attempt := 1; attempt <= n.cfg.MaxAttempts; attempt++ {
		if n.post(url, body) {
			return
		}
		if attempt < n.cfg.MaxAttempts {
			time.Sleep(n.cfg.RetryBackoff)
		}
	}

	log.Printf("[NOTIFY] dropped after %d attempts sink=%s order=%s", n.cfg.MaxAttempts, job.Sink, job.OrderKey)
}

func (n *Notifier) post(url string, body []byte) bool {
	timeout := n.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (n *Notifier) sinkURL(sink Sink) string {
	switch sink {
	case SinkDriver:
		return n.cfg.DriverBotURL
	case SinkPassenger:
		return n.cfg.PassengerBotURL
	case SinkGroup:
		return n.cfg.GroupChatURL
	default:
		return ""
	}
}

// BuildOrderPayload assembles the wire payload for an order notification.
// The request may be nil when only order-level fields are known.
func BuildOrderPayload(order *domain.Order, req *domain.TripRequest) OrderPayload {
	payload := OrderPayload{
		ID:        order.ID,
		Requester: order.RequesterID,
		Driver:    order.DriverID,
		Status:    string(order.Status),
		OrderType: string(order.OrderType),
	}

	if req != nil {
		payload.Content = OrderContent{
			RouteID:    req.RouteID,
			TariffID:   req.TariffID,
			Price:      req.Price,
			Cashback:   req.CashbackRequested,
			Comment:    req.Comment,
			CreatedAt:  req.CreatedAt.Format(time.RFC3339),
			Passengers: req.Passengers,
			HasWoman:   req.HasWoman,
		}
		if !req.StartTime.IsZero() {
			payload.Content.StartTime = req.StartTime.Format(time.RFC3339)
		}
	}

	return payload
}
