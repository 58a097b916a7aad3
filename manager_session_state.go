package appsession

import (
	"context"
	"fmt"
	"time"

	"github.com/mzilio/appsession/session"
)

// GetSessionState returns the current session view for a fetched record,
// upgrading the stored record first when it predates the latest generation.
//
// Records already at the latest generation take the fast path: no write is
// performed and the view mirrors the input exactly. Older records get each
// missing auxiliary token synthesized; tokens already present are preserved
// unchanged, so repeated invocation never re-issues a committed token. The
// upgraded record is persisted with a single-key write before the view is
// returned — the caller never sees a view the store did not accept.
//
// Concurrent upgrades of the same record are tolerated: each caller may
// synthesize tokens locally, the store's last write wins, and the stored
// value is authoritative after commit. Write failures surface as
// [ErrSessionUpdateFailed] and are never retried here.
func (m *Manager) GetSessionState(ctx context.Context, user *session.User) (PublicSession, error) {
	if m == nil || m.store == nil {
		return PublicSession{}, ErrManagerNotReady
	}

	start := time.Now()
	defer func() {
		m.metricObserve(MetricReconcileLatency, time.Since(start))
	}()

	// All required tokens present: no update needed.
	if user.Generation() == session.GenerationCurrent {
		m.metricInc(MetricSessionStateCurrent)
		return publicView(user), nil
	}

	upgraded := *user

	if !upgraded.HasBPDToken() {
		tok, err := m.issuer.Issue()
		if err != nil {
			m.metricInc(MetricSessionUpgradeFailed)
			return PublicSession{}, fmt.Errorf("%w: %v", ErrTokenIssueFailed, err)
		}
		upgraded.BPDToken = tok
		m.metricInc(MetricTokenIssued)
	}

	if !upgraded.HasMyPortalToken() {
		tok, err := m.issuer.Issue()
		if err != nil {
			m.metricInc(MetricSessionUpgradeFailed)
			return PublicSession{}, fmt.Errorf("%w: %v", ErrTokenIssueFailed, err)
		}
		upgraded.MyPortalToken = tok
		m.metricInc(MetricTokenIssued)
	}

	if err := m.store.Update(ctx, &upgraded); err != nil {
		m.metricInc(MetricSessionUpgradeFailed)
		m.auditEmit(ctx, AuditEvent{
			EventType:  AuditUpgradeFailed,
			FiscalCode: upgraded.FiscalCode,
			SessionID:  upgraded.SessionID,
			Success:    false,
			Error:      err.Error(),
		})
		return PublicSession{}, fmt.Errorf("%w: %v", ErrSessionUpdateFailed, err)
	}

	m.metricInc(MetricSessionUpgraded)
	m.auditEmit(ctx, AuditEvent{
		EventType:  AuditSessionUpgraded,
		FiscalCode: upgraded.FiscalCode,
		SessionID:  upgraded.SessionID,
		Success:    true,
		Metadata: map[string]string{
			"from_generation": fmt.Sprintf("%d", user.Generation()),
		},
	})

	return publicView(&upgraded), nil
}
