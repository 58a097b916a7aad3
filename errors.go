package appsession

import "errors"

var (
	// ErrSessionUpdateFailed is an exported constant or variable used by the session manager.
	ErrSessionUpdateFailed = errors.New("session update failed")
	// ErrTokenIssueFailed is an exported constant or variable used by the session manager.
	ErrTokenIssueFailed = errors.New("token issue failed")
	// ErrSessionsUnavailable is an exported constant or variable used by the session manager.
	ErrSessionsUnavailable = errors.New("session index unavailable")
	// ErrSessionResolutionFailed is an exported constant or variable used by the session manager.
	ErrSessionResolutionFailed = errors.New("session resolution failed")
	// ErrNoValidSessions is an exported constant or variable used by the session manager.
	ErrNoValidSessions = errors.New("no valid sessions found for the user")
	// ErrSessionCreationFailed is an exported constant or variable used by the session manager.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrSessionInvalidationFailed is an exported constant or variable used by the session manager.
	ErrSessionInvalidationFailed = errors.New("session invalidation failed")
	// ErrManagerNotReady is an exported constant or variable used by the session manager.
	ErrManagerNotReady = errors.New("manager not initialized")
)
