package audit

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// webhookQueueSize is the bounded channel capacity for outbound alerts.
const webhookQueueSize = 1024

// Webhook dispatches critical events to an external HTTP endpoint. Events
// are enqueued non-blockingly into a bounded channel and sent by a
// background goroutine; if the channel is full, events are dropped.
//
// Wire it as the Log's alert hook: NewLog(..., WithAlertFunc(w.Notify)).
type Webhook struct {
	url        string
	authHeader string // "Header: Value" format, e.g., "Authorization: Bearer xxx"
	client     *http.Client
	events     chan Event
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewWebhook creates a webhook dispatcher and starts its background loop.
func NewWebhook(url, authHeader string, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Webhook{
		url:        url,
		authHeader: authHeader,
		client:     &http.Client{Timeout: 10 * time.Second},
		events:     make(chan Event, webhookQueueSize),
		logger:     logger,
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

// Notify enqueues an event for dispatch. Never blocks.
func (w *Webhook) Notify(evt Event) {
	select {
	case w.events <- evt:
	default:
		w.logger.Warn("alert webhook: queue full, dropping event", "type", evt.Type)
	}
}

// Close shuts down the dispatcher, draining any remaining events.
func (w *Webhook) Close() {
	close(w.events)
	w.wg.Wait()
}

func (w *Webhook) loop() {
	defer w.wg.Done()
	for evt := range w.events {
		w.send(evt)
	}
}

// send POSTs the event to the configured URL with one retry on 5xx.
func (w *Webhook) send(evt Event) {
	body, err := json.Marshal(evt)
	if err != nil {
		w.logger.Warn("alert webhook: marshal failed", "error", err)
		return
	}

	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(1 * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(body))
		if err != nil {
			w.logger.Warn("alert webhook: request creation failed", "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "Wardkeep-Alert-Webhook/1.0")

		if w.authHeader != "" {
			parts := strings.SplitN(w.authHeader, ":", 2)
			if len(parts) == 2 {
				req.Header.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
			}
		}

		resp, err := w.client.Do(req)
		if err != nil {
			w.logger.Warn("alert webhook: request failed", "error", err, "attempt", attempt+1)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return
		}
		if resp.StatusCode >= 500 {
			w.logger.Warn("alert webhook: server error", "status", resp.StatusCode, "attempt", attempt+1)
			continue
		}
		// 4xx: log and do not retry.
		w.logger.Warn("alert webhook: client error", "status", resp.StatusCode)
		return
	}
}
