package token

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/shoe-inventory/internal/logger"
	"github.com/dtroode/shoe-inventory/internal/model"
)

// Identity is an IdentityProvider that mints anonymous subjects and accepts
// tokens signed by its TokenManager.
type Identity struct {
	manager model.TokenManager
	logger  *logger.Logger

	mu        sync.Mutex
	subject   model.Subject
	signedIn  bool
	nextID    int
	listeners map[int]func(string, bool)
}

var _ model.IdentityProvider = (*Identity)(nil)

// NewIdentity creates a new identity provider.
func NewIdentity(manager model.TokenManager, logger *logger.Logger) *Identity {
	return &Identity{
		manager:   manager,
		logger:    logger,
		listeners: make(map[int]func(string, bool)),
	}
}

// SignInAnonymous creates a fresh subject and signs it in.
func (i *Identity) SignInAnonymous(ctx context.Context) (model.Subject, error) {
	if err := ctx.Err(); err != nil {
		return model.Subject{}, err
	}

	id := uuid.NewString()
	tok, err := i.manager.GenerateToken(id)
	if err != nil {
		return model.Subject{}, fmt.Errorf("failed to issue anonymous token: %w", err)
	}

	subject := model.Subject{ID: id, Token: tok}
	i.setState(subject, true)

	i.logger.Info("Identity: signed in anonymously", "subject_id", id)

	return subject, nil
}

// SignInWithToken verifies token and signs its subject in.
func (i *Identity) SignInWithToken(ctx context.Context, token string) (model.Subject, error) {
	if err := ctx.Err(); err != nil {
		return model.Subject{}, err
	}

	id, err := i.manager.ParseToken(token)
	if err != nil {
		i.logger.Warn("Identity: token sign-in rejected", "error", err.Error())
		return model.Subject{}, fmt.Errorf("failed to sign in with token: %w", err)
	}

	subject := model.Subject{ID: id, Token: token}
	i.setState(subject, true)

	i.logger.Info("Identity: signed in with custom token", "subject_id", id)

	return subject, nil
}

// SignOut clears the current subject.
func (i *Identity) SignOut() {
	i.setState(model.Subject{}, false)
	i.logger.Info("Identity: signed out")
}

// Current returns the signed-in subject, if any.
func (i *Identity) Current() (model.Subject, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.subject, i.signedIn
}

// OnAuthStateChange registers fn and immediately reports the current state.
func (i *Identity) OnAuthStateChange(fn func(subjectID string, ok bool)) func() {
	i.mu.Lock()
	id := i.nextID
	i.nextID++
	i.listeners[id] = fn
	subjectID, ok := i.subject.ID, i.signedIn
	i.mu.Unlock()

	fn(subjectID, ok)

	return func() {
		i.mu.Lock()
		delete(i.listeners, id)
		i.mu.Unlock()
	}
}

func (i *Identity) setState(subject model.Subject, ok bool) {
	i.mu.Lock()
	changed := i.signedIn != ok || i.subject.ID != subject.ID
	i.subject = subject
	i.signedIn = ok
	listeners := make([]func(string, bool), 0, len(i.listeners))
	for _, fn := range i.listeners {
		listeners = append(listeners, fn)
	}
	i.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(subject.ID, ok)
	}
}
