// Package metrics constructs the metrics the application will track.
package metrics

import (
	"context"

	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated   prometheus.Counter
	AddressesAdded prometheus.Counter
	Requests       prometheus.Counter
	Errors         prometheus.Counter
	Panics         prometheus.Counter
}

// New creates the metrics and registers them with the specified registerer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		UsersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "reg_users_created_total",
			Help: "Total number of users created by registrations",
		}),
		AddressesAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "reg_addresses_added_total",
			Help: "Total number of addresses appended to a user's history",
		}),
		Requests: f.NewCounter(prometheus.CounterOpts{
			Name: "reg_requests_total",
			Help: "Total number of requests handled",
		}),
		Errors: f.NewCounter(prometheus.CounterOpts{
			Name: "reg_errors_total",
			Help: "Total number of requests that ended in an error",
		}),
		Panics: f.NewCounter(prometheus.CounterOpts{
			Name: "reg_panics_total",
			Help: "Total number of panics recovered",
		}),
	}
}

// Notify implements the registry notifier interface.
func (m *Metrics) Notify(ctx context.Context, reg registry.Registration) {
	if reg.NewUser {
		m.UsersCreated.Inc()
	}
	m.AddressesAdded.Inc()
}

// AddRequests increments the request counter by 1.
func (m *Metrics) AddRequests() {
	m.Requests.Inc()
}

// AddErrors increments the error counter by 1.
func (m *Metrics) AddErrors() {
	m.Errors.Inc()
}

// AddPanics increments the panic counter by 1.
func (m *Metrics) AddPanics() {
	m.Panics.Inc()
}
