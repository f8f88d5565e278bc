// Package notify delivers movie-created events to registered webhooks.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/moviereviews/internal/logging"
	"github.com/dmitrijs2005/moviereviews/internal/server/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout = 5 * time.Second
	maxInFlight    = 8
)

var deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "webhook_deliveries_total",
	Help: "Movie-created webhook deliveries by outcome.",
}, []string{"outcome"})

// WebhookLister returns every registered webhook.
type WebhookLister interface {
	ListAll(ctx context.Context) ([]models.Webhook, error)
}

// Event is the JSON body POSTed to a webhook: the movie fields plus the
// subscriber's own token.
type Event struct {
	models.Movie
	Token string `json:"token"`
}

// Notifier posts events to webhooks. Failures are logged and counted, never
// returned to the request that triggered them.
type Notifier struct {
	lister  WebhookLister
	client  *http.Client
	timeout time.Duration
	logger  logging.Logger
	wg      sync.WaitGroup
}

func New(lister WebhookLister, client *http.Client, timeout time.Duration, logger logging.Logger) *Notifier {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{lister: lister, client: client, timeout: timeout, logger: logger}
}

// MovieCreated starts delivery in the background and returns immediately.
// The delivery outlives ctx cancellation; use Wait to drain on shutdown.
func (n *Notifier) MovieCreated(ctx context.Context, movie models.Movie) {
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.Deliver(ctx, movie); err != nil {
			n.logger.Warn(ctx, "webhook delivery incomplete", "movie_id", movie.ID, "error", err)
		}
	}()
}

// Deliver posts movie to every webhook concurrently and waits for all of
// them. It returns the first delivery error, after all attempts finished.
func (n *Notifier) Deliver(ctx context.Context, movie models.Movie) error {
	hooks, err := n.lister.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list webhooks: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(maxInFlight)
	for _, hook := range hooks {
		g.Go(func() error {
			err := n.post(ctx, hook, movie)
			if err != nil {
				deliveries.WithLabelValues("failed").Inc()
				n.logger.Debug(ctx, "webhook post failed", "webhook_id", hook.ID, "error", err)
				return err
			}
			deliveries.WithLabelValues("delivered").Inc()
			return nil
		})
	}
	return g.Wait()
}

// Wait blocks until every background delivery started by MovieCreated is done.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) post(ctx context.Context, hook models.Webhook, movie models.Movie) error {
	body, err := json.Marshal(Event{Movie: movie, Token: hook.Token})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook %d responded %s", hook.ID, resp.Status)
	}
	return nil
}
