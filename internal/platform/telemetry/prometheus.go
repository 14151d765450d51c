package telemetry

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "formdesk"

// Navigation outcomes.
const (
	OutcomeMatched  = "matched"
	OutcomeNotFound = "not_found"
)

// notFoundRoute labels navigations and renders that matched no route.
const notFoundRoute = "none"

// NavigationMetrics are the Prometheus collectors for navigations and page
// renders. It satisfies the shell's render observer.
type NavigationMetrics struct {
	navigations    *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
}

// NewNavigationMetrics creates the collectors and registers them with reg.
// Registering twice against the same registry reuses the existing
// collectors.
func NewNavigationMetrics(reg prometheus.Registerer) (*NavigationMetrics, error) {
	navigations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "navigations_total",
		Help:      "Committed navigations by route and outcome.",
	}, []string{"route", "outcome"})

	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "render_duration_seconds",
		Help:      "Time to render the host document for a navigation.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"route", "status"})

	var err error
	if navigations, err = register(reg, navigations); err != nil {
		return nil, err
	}

	if renderDuration, err = register(reg, renderDuration); err != nil {
		return nil, err
	}

	return &NavigationMetrics{
		navigations:    navigations,
		renderDuration: renderDuration,
	}, nil
}

// ObserveNavigation counts a committed navigation. route is the route's
// name, or its path pattern when unnamed; an empty route means no route
// matched.
func (m *NavigationMetrics) ObserveNavigation(route string, notFound bool) {
	outcome := OutcomeMatched
	if notFound {
		outcome = OutcomeNotFound
	}

	m.navigations.WithLabelValues(routeOrNone(route), outcome).Inc()
}

// ObserveRender records a render duration.
func (m *NavigationMetrics) ObserveRender(route string, status int, d time.Duration) {
	m.renderDuration.WithLabelValues(routeOrNone(route), strconv.Itoa(status)).Observe(d.Seconds())
}

func routeOrNone(route string) string {
	if route == "" {
		return notFoundRoute
	}

	return route
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		return c, err
	}

	return c, nil
}
