package appsession

import (
	"context"
	"fmt"
	"strconv"
)

// ListSessions resolves the full session inventory of one identity.
//
// The listing is all-or-nothing: an index lookup failure surfaces as
// [ErrSessionsUnavailable], any session ID that no longer resolves to a
// record fails the whole call with [ErrSessionResolutionFailed], and an
// inventory that resolves to zero sessions is [ErrNoValidSessions] — an
// authenticated identity with no live session is a business-state anomaly,
// not an empty result. A successful call returns the views in index
// enumeration order and the list is guaranteed non-empty.
func (m *Manager) ListSessions(ctx context.Context, fiscalCode string) (SessionsList, error) {
	if m == nil || m.store == nil {
		return SessionsList{}, ErrManagerNotReady
	}

	ids, err := m.store.SessionIDs(ctx, fiscalCode)
	if err != nil {
		m.metricInc(MetricListUnavailable)
		return SessionsList{}, fmt.Errorf("%w: %v", ErrSessionsUnavailable, err)
	}

	if len(ids) == 0 {
		m.metricInc(MetricListEmpty)
		return SessionsList{}, ErrNoValidSessions
	}

	users, missing, err := m.store.GetMany(ctx, ids)
	if err != nil {
		m.metricInc(MetricListUnavailable)
		return SessionsList{}, fmt.Errorf("%w: %v", ErrSessionsUnavailable, err)
	}
	if len(missing) > 0 {
		// An indexed session that does not resolve is a consistency
		// failure for the whole inventory, not a silent exclusion.
		m.metricInc(MetricListResolutionFailed)
		return SessionsList{}, fmt.Errorf("%w: %d of %d session ids unresolved", ErrSessionResolutionFailed, len(missing), len(ids))
	}
	if len(users) == 0 {
		m.metricInc(MetricListEmpty)
		return SessionsList{}, ErrNoValidSessions
	}

	views := make([]PublicSession, 0, len(users))
	for _, u := range users {
		views = append(views, publicView(u))
	}

	m.metricInc(MetricSessionsListed)
	m.auditEmit(ctx, AuditEvent{
		EventType:  AuditSessionsListed,
		FiscalCode: fiscalCode,
		Success:    true,
		Metadata: map[string]string{
			"sessions": strconv.Itoa(len(views)),
		},
	})

	return SessionsList{Sessions: views}, nil
}
