package ledger

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/grouporder/internal/calculator"
)

// Counters only cover the calls made through one Ledger value. The CLI builds
// a fresh Ledger per invocation, so totals that must survive restarts come
// from stateCollector instead.
type metrics struct {
	tokensCreated  prometheus.Counter
	tokensClosed   prometheus.Counter
	ordersRecorded prometheus.Counter
	orderValue     prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{
		tokensCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grouporder",
			Subsystem: "ledger",
			Name:      "tokens_created_total",
			Help:      "Tokens created by this process, including overwrites of an existing id.",
		}),
		tokensClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grouporder",
			Subsystem: "ledger",
			Name:      "tokens_closed_total",
			Help:      "Tokens moved from active to closed by this process.",
		}),
		ordersRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grouporder",
			Subsystem: "ledger",
			Name:      "orders_recorded_total",
			Help:      "Orders appended by this process.",
		}),
		orderValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grouporder",
			Subsystem: "ledger",
			Name:      "order_value_total",
			Help:      "Sum of positive order totals recorded by this process.",
		}),
	}
}

func (m *metrics) register(reg prometheus.Registerer) {
	reg.MustRegister(m.tokensCreated, m.tokensClosed, m.ordersRecorded, m.orderValue)
}

const collectTimeout = 5 * time.Second

var (
	tokensDesc = prometheus.NewDesc(
		prometheus.BuildFQName("grouporder", "ledger", "tokens"),
		"Stored tokens by status.",
		[]string{"status"}, nil,
	)
	tokenOrdersDesc = prometheus.NewDesc(
		prometheus.BuildFQName("grouporder", "ledger", "token_orders"),
		"Stored orders per token.",
		[]string{"token_id"}, nil,
	)
	tokenOrderValueDesc = prometheus.NewDesc(
		prometheus.BuildFQName("grouporder", "ledger", "token_order_value"),
		"Sum of stored order totals per token.",
		[]string{"token_id"}, nil,
	)
)

// stateCollector reports gauges read from the store at gather time.
type stateCollector struct {
	ledger *Ledger
}

func (c stateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- tokensDesc
	ch <- tokenOrdersDesc
	ch <- tokenOrderValueDesc
}

func (c stateCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()

	tokens, err := c.ledger.loadTokens(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(tokensDesc, err)
		return
	}
	orders, err := c.ledger.loadOrders(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(tokenOrdersDesc, err)
		return
	}

	var active, closed float64
	for _, token := range tokens {
		if token.IsActive {
			active++
		} else {
			closed++
		}
	}
	ch <- prometheus.MustNewConstMetric(tokensDesc, prometheus.GaugeValue, active, "active")
	ch <- prometheus.MustNewConstMetric(tokensDesc, prometheus.GaugeValue, closed, "closed")

	// Tokens without orders report zero; orders under an unknown id still count.
	ids := make(map[string]struct{}, len(tokens)+len(orders))
	for id := range tokens {
		ids[id] = struct{}{}
	}
	for id := range orders {
		ids[id] = struct{}{}
	}
	for id := range ids {
		list := orders[id]
		ch <- prometheus.MustNewConstMetric(tokenOrdersDesc, prometheus.GaugeValue, float64(len(list)), id)
		ch <- prometheus.MustNewConstMetric(tokenOrderValueDesc, prometheus.GaugeValue, calculator.TokenTotal(list), id)
	}
}
