package metrics

import (
	"request-approval-backend/lib/utils/apperr"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

type Provider interface {
	// ObserveTransition counts one lifecycle operation by action and outcome.
	ObserveTransition(action string, err error)
}

func NewInstance(reg prometheus.Registerer) Provider {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "request_lifecycle_operations_total",
		Help: "Request lifecycle operations by action and result.",
	}, []string{"action", "result"})
	reg.MustRegister(transitions)
	return impl{transitions: transitions}
}

type impl struct {
	transitions *prometheus.CounterVec
}

func (i impl) ObserveTransition(action string, err error) {
	result := "ok"
	if err != nil {
		result = strings.ToLower(string(apperr.KindOf(err)))
	}
	i.transitions.WithLabelValues(action, result).Inc()
}
