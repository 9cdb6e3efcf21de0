// Package searchevents publishes search outcome events to Kafka.
package searchevents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/restaurant-recommender/internal/cache/keys"
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/observability"
	mylog "github.com/mohammed-shakir/restaurant-recommender/internal/logger"
	"github.com/mohammed-shakir/restaurant-recommender/internal/store"
)

// Event carries no location or term text; filters are identified by hash.
type Event struct {
	Session     string    `json:"session,omitempty"`
	Outcome     string    `json:"outcome"`
	Stale       bool      `json:"stale,omitempty"`
	Total       int       `json:"total"`
	SortBy      string    `json:"sort_by,omitempty"`
	ViewType    string    `json:"view_type,omitempty"`
	FiltersHash string    `json:"filters_hash,omitempty"`
	LatencyMS   int64     `json:"latency_ms"`
	TS          time.Time `json:"ts"`
}

// FromOutcome builds the event for one finished search.
func FromOutcome(session string, o store.Outcome, now time.Time) Event {
	ev := Event{
		Session:   session,
		Outcome:   o.Outcome,
		Stale:     o.Stale,
		Total:     o.Total,
		SortBy:    string(o.Filters.SortBy),
		ViewType:  string(o.Filters.View()),
		LatencyMS: o.Duration.Milliseconds(),
		TS:        now.UTC(),
	}
	if o.Params != nil {
		ev.FiltersHash = keys.Hash(o.Params)
	}
	return ev
}

type Publisher struct {
	topic   string
	events  chan Event
	prod    sarama.AsyncProducer
	logger  *slog.Logger
	stopped chan struct{}
	errDone chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewPublisher(brokers []string, topic string, queueSize int, logger *slog.Logger) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.Return.Errors = true
	cfg.Producer.Return.Successes = false

	prod, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("searchevents: create async producer: %w", err)
	}
	return newWithProducer(prod, topic, queueSize, logger), nil
}

func newWithProducer(prod sarama.AsyncProducer, topic string, queueSize int, logger *slog.Logger) *Publisher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{
		topic:   topic,
		events:  make(chan Event, queueSize),
		prod:    prod,
		logger:  logger,
		stopped: make(chan struct{}),
		errDone: make(chan struct{}),
	}

	go func() {
		defer close(p.stopped)
		for ev := range p.events {
			b, err := json.Marshal(ev)
			if err != nil {
				p.logger.Warn("searchevents: marshal error", "err", err)
				continue
			}
			msg := &sarama.ProducerMessage{
				Topic: p.topic,
				Value: sarama.ByteEncoder(b),
			}
			// keyed by session so one session's searches stay ordered
			if ev.Session != "" {
				msg.Key = sarama.StringEncoder(ev.Session)
			}
			p.prod.Input() <- msg
		}
	}()

	go func() {
		defer close(p.errDone)
		for err := range p.prod.Errors() {
			if err != nil {
				p.logger.Warn("searchevents: producer error", "err", err)
			}
		}
	}()

	return p
}

// Publish enqueues ev and reports whether it was accepted. A full queue
// drops the event; the request path never waits on Kafka. Events published
// after Close are dropped.
func (p *Publisher) Publish(ev Event) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		observability.IncEventDropped()
		return false
	}
	select {
	case p.events <- ev:
		return true
	default:
		observability.IncEventDropped()
		return false
	}
}

// OnComplete matches store.Options.OnComplete.
func (p *Publisher) OnComplete(ctx context.Context, o store.Outcome) {
	p.Publish(FromOutcome(mylog.SessionID(ctx), o, time.Now()))
}

// Close drains queued events and closes the producer. Later calls are no-ops.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.events)
	p.mu.Unlock()
	<-p.stopped

	if err := p.prod.Close(); err != nil {
		return fmt.Errorf("searchevents: close producer: %w", err)
	}
	<-p.errDone
	return nil
}
