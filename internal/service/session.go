package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dtroode/shoe-inventory/internal/logger"
	"github.com/dtroode/shoe-inventory/internal/model"
	"github.com/dtroode/shoe-inventory/internal/query"
)

// State is what session listeners receive on every change.
type State struct {
	Records []model.Shoe
	Version uint64
	Subject string
	Err     error
}

// Session authenticates, keeps exactly one live subscription to the shoe
// collection and holds the latest record set.
//
// The record set is replaced wholesale on every push. Only the subscription
// callback writes it; readers take a copy under a read lock. On a
// subscription failure the last-known-good records are kept and Err reports
// the failure until the next successful push or re-subscription.
type Session struct {
	cfg      model.SessionConfig
	identity model.IdentityProvider
	store    model.DocumentStore
	logger   *logger.Logger

	// lifecycle serializes Open, Close and auth-state handling.
	lifecycle   sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	sub         model.Subscription
	unsubscribe func()
	closed      bool

	mu         sync.RWMutex
	records    []model.Shoe
	version    uint64
	subject    string
	err        error
	generation uint64

	listenersMu sync.Mutex
	nextID      int
	listeners   map[int]func(State)

	memo query.Memo
}

var _ model.Readiness = (*Session)(nil)

// NewSession creates a session. Nothing happens until Open.
func NewSession(cfg model.SessionConfig, identity model.IdentityProvider, store model.DocumentStore, logger *logger.Logger) *Session {
	return &Session{
		cfg:       cfg,
		identity:  identity,
		store:     store,
		logger:    logger.With("collection", model.CollectionPath(cfg.ApplicationID)),
		listeners: make(map[int]func(State)),
	}
}

// Open signs in and starts the subscription. It returns a *model.SyncError
// if authentication or the initial subscription fails. Open may be called
// again after such a failure to retry.
func (s *Session) Open(ctx context.Context) error {
	s.lifecycle.Lock()
	if s.closed {
		s.lifecycle.Unlock()
		return fmt.Errorf("session is closed")
	}
	if s.cancel != nil {
		defer s.lifecycle.Unlock()
		return s.retrySubscribeLocked()
	}
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.lifecycle.Unlock()

	var err error
	if s.cfg.BootstrapToken != "" {
		_, err = s.identity.SignInWithToken(ctx, s.cfg.BootstrapToken)
	} else {
		_, err = s.identity.SignInAnonymous(ctx)
	}
	if err != nil {
		syncErr := &model.SyncError{Op: "authenticate", Err: err}
		s.logger.Error("Sync session: failed to authenticate", "error", err.Error())

		s.lifecycle.Lock()
		if s.cancel != nil {
			s.cancel()
			s.ctx, s.cancel = nil, nil
		}
		s.lifecycle.Unlock()

		s.fail(syncErr)
		return syncErr
	}

	unsubscribe := s.identity.OnAuthStateChange(s.handleAuthState)

	s.lifecycle.Lock()
	if s.closed {
		s.lifecycle.Unlock()
		unsubscribe()
		return fmt.Errorf("session is closed")
	}
	s.unsubscribe = unsubscribe
	s.lifecycle.Unlock()

	return s.Err()
}

// Close disposes the subscription and the auth listener. No listener is
// called after Close returns. Close is idempotent.
func (s *Session) Close() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.stopSubscriptionLocked()
	if s.cancel != nil {
		s.cancel()
	}

	s.listenersMu.Lock()
	clear(s.listeners)
	s.listenersMu.Unlock()

	s.logger.Info("Sync session: closed")

	return nil
}

// OnChange registers fn for every state change and returns a func that
// unregisters it.
func (s *Session) OnChange(fn func(State)) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// Records returns a copy of the current record set.
func (s *Session) Records() []model.Shoe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Version increases every time the record set is replaced.
func (s *Session) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subject returns the signed-in subject id.
func (s *Session) Subject() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subject, s.subject != ""
}

// Ready reports whether both identity and store handle are present.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subject != "" && s.store != nil
}

// Err returns the last sync failure, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// CollectionPath returns the logical path of the shoe collection.
func (s *Session) CollectionPath() string {
	return model.CollectionPath(s.cfg.ApplicationID)
}

// View computes the filtered and sorted view of the current record set.
func (s *Session) View(spec model.QuerySpec) []model.Shoe {
	s.mu.RLock()
	records, version := s.records, s.version
	s.mu.RUnlock()

	return slices.Clone(s.memo.View(version, records, spec))
}

func (s *Session) handleAuthState(subjectID string, ok bool) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.closed {
		return
	}

	s.mu.RLock()
	current := s.subject
	s.mu.RUnlock()

	if !ok {
		s.stopSubscriptionLocked()
		s.replace(nil, "", nil)
		s.logger.Info("Sync session: signed out, subscription disposed")
		return
	}

	if subjectID == current && s.sub != nil {
		return
	}

	s.stopSubscriptionLocked()
	_ = s.subscribeLocked(subjectID)
}

// retrySubscribeLocked reopens the subscription of an open session whose
// last subscribe attempt failed. Callers hold lifecycle.
func (s *Session) retrySubscribeLocked() error {
	subject, ok := s.Subject()
	if s.unsubscribe == nil || s.sub != nil || !ok {
		return fmt.Errorf("session is already open")
	}

	s.stopSubscriptionLocked()
	return s.subscribeLocked(subject)
}

// subscribeLocked starts the subscription for subjectID. Callers hold
// lifecycle and have stopped any previous subscription.
func (s *Session) subscribeLocked(subjectID string) error {
	s.mu.Lock()
	s.subject = subjectID
	s.err = nil
	gen := s.generation
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}

	path := s.CollectionPath()

	sub, err := s.store.Subscribe(s.ctx, path, model.SnapshotFuncs{
		Snapshot: func(records []model.Shoe) { s.handleSnapshot(gen, records) },
		Error:    func(err error) { s.handleSubscriptionError(gen, err) },
	})
	if err != nil {
		syncErr := &model.SyncError{Op: "subscribe", Err: err}
		s.logger.Error("Sync session: failed to subscribe", "subject_id", subjectID, "error", err.Error())
		s.fail(syncErr)
		return syncErr
	}
	s.sub = sub

	s.logger.Info("Sync session: listening to collection", "subject_id", subjectID)

	return nil
}

// stopSubscriptionLocked invalidates callbacks of the live subscription and
// waits for it to stop. Callers hold lifecycle.
func (s *Session) stopSubscriptionLocked() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()

	if s.sub != nil {
		s.sub.Stop()
		s.sub = nil
	}
}

func (s *Session) handleSnapshot(gen uint64, records []model.Shoe) {
	if !s.current(gen) {
		return
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.Shoe) int {
		switch {
		case a.Size < b.Size:
			return -1
		case a.Size > b.Size:
			return 1
		default:
			return 0
		}
	})

	s.mu.RLock()
	subject := s.subject
	s.mu.RUnlock()

	s.replace(sorted, subject, nil)
	s.logger.Debug("Sync session: shoes data updated", "count", len(sorted))
}

func (s *Session) handleSubscriptionError(gen uint64, err error) {
	if !s.current(gen) {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}

	s.logger.Error("Sync session: error fetching shoes", "error", err.Error())
	s.fail(&model.SyncError{Op: "subscribe", Err: err})
}

// current reports whether gen is still the live subscription generation.
// It must not take lifecycle: Stop holds it while waiting for callbacks.
func (s *Session) current(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation == gen
}

func (s *Session) replace(records []model.Shoe, subject string, err error) {
	s.mu.Lock()
	s.records = records
	s.version++
	s.subject = subject
	s.err = err
	state := State{Records: slices.Clone(records), Version: s.version, Subject: subject, Err: err}
	s.mu.Unlock()

	s.notify(state)
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.err = err
	state := State{Records: slices.Clone(s.records), Version: s.version, Subject: s.subject, Err: err}
	s.mu.Unlock()

	s.notify(state)
}

func (s *Session) notify(state State) {
	s.listenersMu.Lock()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
