package utils

import (
	"strconv"
	"time"

	"github.com/lockbox-labs/lockbox"
	"github.com/lockbox-labs/lockbox/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a decorator counting delivered messages per path and
// outcome and observing how long they took. Check calls are not
// measured.
type Metrics struct {
	delivered *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var _ lockbox.Decorator = (*Metrics)(nil)

// NewMetrics registers the collectors with reg. Passing nil registers
// them with the default prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		delivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lockbox_messages_delivered_total",
			Help: "Delivered messages by path and result code",
		}, []string{"path", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lockbox_message_duration_seconds",
			Help:    "Duration of message delivery by path",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"path"}),
	}
}

// Check passes the call through.
func (m *Metrics) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx, next lockbox.Checker) (*lockbox.CheckResult, error) {
	return next.Check(ctx, store, tx)
}

// Deliver records the outcome of the call.
func (m *Metrics) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx, next lockbox.Deliverer) (*lockbox.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)

	path := lockbox.GetPath(tx)
	m.duration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	code, _ := errors.Info(err, false)
	m.delivered.WithLabelValues(path, codeLabel(code)).Inc()
	return res, err
}

func codeLabel(code uint32) string {
	if code == 0 {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
