package appsession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mzilio/appsession/session"
)

// CreateSession persists a fresh session record for an identity that just
// authenticated upstream. New records are created at the latest generation:
// wallet and both auxiliary tokens are issued up front, so the reconciler's
// fast path applies from the first read.
//
// CreateSession may return an error when input validation, dependency calls, or security checks fail.
func (m *Manager) CreateSession(ctx context.Context, fiscalCode string, spidLevel int) (*session.User, error) {
	if m == nil || m.store == nil {
		return nil, ErrManagerNotReady
	}
	if fiscalCode == "" {
		return nil, fmt.Errorf("%w: fiscal code required", ErrSessionCreationFailed)
	}
	if spidLevel < 1 || spidLevel > 3 {
		return nil, fmt.Errorf("%w: spid level %d out of range", ErrSessionCreationFailed, spidLevel)
	}

	user := &session.User{
		SessionID:  uuid.NewString(),
		FiscalCode: fiscalCode,
		SpidLevel:  spidLevel,
		CreatedAt:  time.Now().Unix(),
	}

	for _, field := range []*string{&user.WalletToken, &user.MyPortalToken, &user.BPDToken} {
		tok, err := m.issuer.Issue()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTokenIssueFailed, err)
		}
		*field = tok
		m.metricInc(MetricTokenIssued)
	}

	if err := m.store.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}

	m.metricInc(MetricSessionCreated)
	m.auditEmit(ctx, AuditEvent{
		EventType:  AuditSessionCreated,
		FiscalCode: user.FiscalCode,
		SessionID:  user.SessionID,
		Success:    true,
	})

	return user, nil
}

// DestroySession removes a session record and its index entry. Destroying
// an already-absent session succeeds: logout is idempotent.
//
// DestroySession may return an error when input validation, dependency calls, or security checks fail.
func (m *Manager) DestroySession(ctx context.Context, user *session.User) error {
	if m == nil || m.store == nil {
		return ErrManagerNotReady
	}
	if user == nil || user.SessionID == "" {
		return errors.New("session record required")
	}

	if err := m.store.Delete(ctx, user.FiscalCode, user.SessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionInvalidationFailed, err)
	}

	m.metricInc(MetricSessionDestroyed)
	m.auditEmit(ctx, AuditEvent{
		EventType:  AuditSessionDestroyed,
		FiscalCode: user.FiscalCode,
		SessionID:  user.SessionID,
		Success:    true,
	})

	return nil
}

// GetSession resolves a session ID to its record. Absence surfaces as the
// store's not-found error; callers on the read path that need upgrade
// semantics should pass the result to [Manager.GetSessionState].
//
// GetSession may return an error when input validation, dependency calls, or security checks fail.
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*session.User, error) {
	if m == nil || m.store == nil {
		return nil, ErrManagerNotReady
	}
	return m.store.Get(ctx, sessionID)
}
