package appsession

import (
	"context"
	"time"

	"github.com/mzilio/appsession/session"
	"github.com/mzilio/appsession/token"
)

// Manager defines a public type used by appsession APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config        Config
	store         *session.Store
	issuer        *token.Issuer
	supportSigner *token.SupportSigner
	audit         *auditDispatcher
	metrics       *Metrics
}

// Close drains the audit dispatcher. Safe on a nil receiver.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	if m.audit != nil {
		m.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped under
// backpressure.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time deep copy of all metrics.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// Ping reports store availability and round-trip latency, for transport
// readiness checks.
//
// Ping may return an error when input validation, dependency calls, or security checks fail.
func (m *Manager) Ping(ctx context.Context) (time.Duration, error) {
	if m == nil || m.store == nil {
		return 0, ErrManagerNotReady
	}
	return m.store.Ping(ctx)
}

// SupportToken mints a signed support token bound to the given fiscal
// code. Returns [ErrManagerNotReady] when support tokens are not
// configured.
//
// SupportToken may return an error when input validation, dependency calls, or security checks fail.
func (m *Manager) SupportToken(fiscalCode string) (string, error) {
	if m == nil || m.supportSigner == nil {
		return "", ErrManagerNotReady
	}
	return m.supportSigner.Sign(fiscalCode)
}

func (m *Manager) metricInc(id MetricID) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Inc(id)
}

func (m *Manager) metricObserve(id MetricID, d time.Duration) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.Observe(id, d)
}

func (m *Manager) auditEmit(ctx context.Context, event AuditEvent) {
	if m == nil || m.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	m.audit.Emit(ctx, event)
}

// publicView builds the client-facing view of a record. Field values are
// copied as-is: the view never synthesizes or drops tokens.
func publicView(u *session.User) PublicSession {
	return PublicSession{
		BPDToken:      u.BPDToken,
		MyPortalToken: u.MyPortalToken,
		SpidLevel:     u.SpidLevel,
		WalletToken:   u.WalletToken,
	}
}
