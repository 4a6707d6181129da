package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the order-flow counters. Constructed once in main and
// injected, same as every other stateful component.
type Metrics struct {
	CheckoutsStarted    prometheus.Counter
	CheckoutsOutOfStock prometheus.Counter
	ProviderErrors      prometheus.Counter
	BillsCreated        prometheus.Counter
	BillsPaid           prometheus.Counter
	BillsAbandoned      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CheckoutsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopbot_checkouts_started_total",
			Help: "Checkout attempts that reached stock reservation.",
		}),
		CheckoutsOutOfStock: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopbot_checkouts_out_of_stock_total",
			Help: "Checkout attempts refused for lack of stock.",
		}),
		ProviderErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopbot_provider_errors_total",
			Help: "Failed calls to the payment provider.",
		}),
		BillsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopbot_bills_created_total",
			Help: "Bills recorded in the ledger.",
		}),
		BillsPaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopbot_bills_paid_total",
			Help: "Bills reconciled as paid.",
		}),
		BillsAbandoned: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopbot_bills_abandoned_total",
			Help: "Bills explicitly abandoned with stock returned.",
		}),
	}
}
