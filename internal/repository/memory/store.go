// Package memory implements an in-process DocumentStore with live
// subscriptions. It backs the development driver and tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/shoe-inventory/internal/model"
)

var _ model.DocumentStore = (*Store)(nil)

// Store is an in-process document store. Records do not survive the process.
type Store struct {
	mu          sync.Mutex
	collections map[string]*collection
	nextSubID   int
}

type collection struct {
	docs []model.Shoe
	keys map[string]string
	subs map[int]*subscription
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// Subscribe delivers the current snapshot immediately and then after every change.
// Snapshots are coalesced: a slow handler only sees the latest state.
func (s *Store) Subscribe(ctx context.Context, path string, handler model.SnapshotHandler) (model.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		cancel:  cancel,
		handler: handler,
	}

	s.mu.Lock()
	c := s.collection(path)
	id := s.nextSubID
	s.nextSubID++
	c.subs[id] = sub
	sub.publish(c.snapshot())
	s.mu.Unlock()

	sub.detach = func() {
		s.mu.Lock()
		delete(c.subs, id)
		s.mu.Unlock()
	}

	go sub.run(subCtx)

	return sub, nil
}

// Create stores a new document. A repeated key returns the id stored under it.
func (s *Store) Create(ctx context.Context, path string, key string, fields model.ShoeFields, createdAt time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(path)
	if key != "" {
		if id, ok := c.keys[key]; ok {
			return id, nil
		}
	}

	id := uuid.NewString()
	c.docs = append(c.docs, model.Shoe{ID: id, ShoeFields: fields, CreatedAt: createdAt})
	if key != "" {
		c.keys[key] = id
	}
	c.broadcast()

	return id, nil
}

// Update replaces the mutable fields of a document.
func (s *Store) Update(ctx context.Context, path string, id string, fields model.ShoeFields) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(path)
	i := slices.IndexFunc(c.docs, func(d model.Shoe) bool { return d.ID == id })
	if i < 0 {
		return model.ErrNotFound
	}
	c.docs[i].ShoeFields = fields
	c.broadcast()

	return nil
}

// Delete removes a document.
func (s *Store) Delete(ctx context.Context, path string, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(path)
	i := slices.IndexFunc(c.docs, func(d model.Shoe) bool { return d.ID == id })
	if i < 0 {
		return model.ErrNotFound
	}
	c.docs = slices.Delete(c.docs, i, i+1)
	c.broadcast()

	return nil
}

// Len returns the number of documents in a collection.
func (s *Store) Len(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[path]; ok {
		return len(c.docs)
	}
	return 0
}

// Subscribers returns the number of live subscriptions on a collection.
func (s *Store) Subscribers(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[path]; ok {
		return len(c.subs)
	}
	return 0
}

func (s *Store) collection(path string) *collection {
	c, ok := s.collections[path]
	if !ok {
		c = &collection{
			keys: make(map[string]string),
			subs: make(map[int]*subscription),
		}
		s.collections[path] = c
	}
	return c
}

func (c *collection) snapshot() []model.Shoe {
	return slices.Clone(c.docs)
}

func (c *collection) broadcast() {
	snap := c.snapshot()
	for _, sub := range c.subs {
		sub.publish(snap)
	}
}

type subscription struct {
	mu      sync.Mutex
	pending []model.Shoe
	has     bool

	notify   chan struct{}
	done     chan struct{}
	cancel   context.CancelFunc
	detach   func()
	handler  model.SnapshotHandler
	stopOnce sync.Once
}

func (s *subscription) publish(snap []model.Shoe) {
	s.mu.Lock()
	s.pending = snap
	s.has = true
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscription) run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.notify:
		}

		s.mu.Lock()
		snap, ok := s.pending, s.has
		s.pending, s.has = nil, false
		s.mu.Unlock()

		if !ok || ctx.Err() != nil {
			continue
		}
		s.handler.OnSnapshot(snap)
	}
}

func (s *subscription) Stop() {
	s.stopOnce.Do(func() {
		s.detach()
		s.cancel()
		<-s.done
	})
}
