// Package metrics records authentication outcomes as prometheus counters.
package metrics

import (
	"hrpm/config"
	"hrpm/internal/domain/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

const namespace = "hrpm"

// NewRegistry returns the registry served at /metrics, with Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// Params defines the dependencies of New.
type Params struct {
	fx.In

	Config   *config.Config
	Registry *prometheus.Registry
}

// New returns prometheus backed metrics, or a no-op recorder when metrics are disabled.
func New(params Params) (service.AuthMetrics, error) {
	if !params.Config.Metrics.Enabled {
		return NewNoopAuthMetrics(), nil
	}

	return NewAuthMetrics(params.Registry)
}

type authMetrics struct {
	logins                *prometheus.CounterVec
	refreshes             *prometheus.CounterVec
	logouts               prometheus.Counter
	passwordResetRequests prometheus.Counter
	passwordResets        *prometheus.CounterVec
	refreshTokenReuse     prometheus.Counter
}

// NewAuthMetrics registers the auth counters on reg.
func NewAuthMetrics(reg prometheus.Registerer) (service.AuthMetrics, error) {
	m := &authMetrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "refresh_total",
			Help:      "Refresh token rotations by result.",
		}, []string{"result"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logout_total",
			Help:      "Logout calls.",
		}),
		passwordResetRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "password_reset_requests_total",
			Help:      "Forgot-password requests, known and unknown emails alike.",
		}),
		passwordResets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "password_resets_total",
			Help:      "Password reset redemptions by result.",
		}, []string{"result"}),
		refreshTokenReuse: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "refresh_reuse_total",
			Help:      "Presentations of already used or revoked refresh tokens.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.logins, m.refreshes, m.logouts, m.passwordResetRequests, m.passwordResets, m.refreshTokenReuse,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *authMetrics) LoginAttempt(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *authMetrics) RefreshAttempt(outcome string) {
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *authMetrics) Logout() {
	m.logouts.Inc()
}

func (m *authMetrics) PasswordResetRequested() {
	m.passwordResetRequests.Inc()
}

func (m *authMetrics) PasswordResetCompleted(outcome string) {
	m.passwordResets.WithLabelValues(outcome).Inc()
}

func (m *authMetrics) RefreshTokenReuse() {
	m.refreshTokenReuse.Inc()
}

type noopMetrics struct{}

// NewNoopAuthMetrics discards every observation.
func NewNoopAuthMetrics() service.AuthMetrics {
	return noopMetrics{}
}

func (noopMetrics) LoginAttempt(string)           {}
func (noopMetrics) RefreshAttempt(string)         {}
func (noopMetrics) Logout()                       {}
func (noopMetrics) PasswordResetRequested()       {}
func (noopMetrics) PasswordResetCompleted(string) {}
func (noopMetrics) RefreshTokenReuse()            {}
