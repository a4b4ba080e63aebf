package model

import "context"

// SessionConfig is the explicit startup configuration of a sync session.
type SessionConfig struct {
	ApplicationID    string
	StoreCredentials string
	// BootstrapToken, when set, is used instead of anonymous sign-in.
	BootstrapToken string
}

// Subject is an authenticated identity.
type Subject struct {
	ID    string
	Token string
}

// IdentityProvider signs sessions in and reports auth-state changes.
type IdentityProvider interface {
	SignInAnonymous(ctx context.Context) (Subject, error)
	SignInWithToken(ctx context.Context, token string) (Subject, error)
	// OnAuthStateChange registers fn and calls it with the current state.
	// ok is false when nobody is signed in. The returned func unregisters fn.
	OnAuthStateChange(fn func(subjectID string, ok bool)) (unsubscribe func())
}

// Readiness reports whether writes may be issued.
type Readiness interface {
	Ready() bool
	CollectionPath() string
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(message string) bool
}
