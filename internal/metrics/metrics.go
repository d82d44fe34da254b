package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	WebhookApplied  prometheus.Counter
	WebhookIgnored  prometheus.Counter
	WebhookRejected prometheus.Counter

	SyncPages      prometheus.Counter
	SyncRetries    prometheus.Counter
	OrdersUpserted prometheus.Counter
	OrdersSkipped  prometheus.Counter
	ItemsSkipped   prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	webhookApplied := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_webhook_applied_total"})
	webhookIgnored := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_webhook_ignored_total"})
	webhookRejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_webhook_rejected_total"})

	syncPages := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_sync_pages_total"})
	syncRetries := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_sync_retries_total"})
	ordersUpserted := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_orders_upserted_total"})
	ordersSkipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_orders_skipped_total"})
	itemsSkipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "pos_items_skipped_total"})

	r.MustRegister(webhookApplied, webhookIgnored, webhookRejected, syncPages, syncRetries, ordersUpserted, ordersSkipped, itemsSkipped)
	return &Registry{
		reg:             r,
		WebhookApplied:  webhookApplied,
		WebhookIgnored:  webhookIgnored,
		WebhookRejected: webhookRejected,
		SyncPages:       syncPages,
		SyncRetries:     syncRetries,
		OrdersUpserted:  ordersUpserted,
		OrdersSkipped:   ordersSkipped,
		ItemsSkipped:    itemsSkipped,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
