package service

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/shoe-inventory/internal/model"
)

// MockDocumentStore mocks the DocumentStore interface
type MockDocumentStore struct {
	mock.Mock

	mu       sync.Mutex
	handlers []model.SnapshotHandler
}

func (m *MockDocumentStore) Subscribe(ctx context.Context, collection string, handler model.SnapshotHandler) (model.Subscription, error) {
	args := m.Called(ctx, collection, handler)
	sub, _ := args.Get(0).(model.Subscription)
	if args.Error(1) == nil {
		m.mu.Lock()
		m.handlers = append(m.handlers, handler)
		m.mu.Unlock()
	}
	return sub, args.Error(1)
}

func (m *MockDocumentStore) Create(ctx context.Context, collection string, key string, fields model.ShoeFields, createdAt time.Time) (string, error) {
	args := m.Called(ctx, collection, key, fields, createdAt)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Update(ctx context.Context, collection string, id string, fields model.ShoeFields) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection string, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

// handler returns the n-th handler passed to a successful Subscribe.
func (m *MockDocumentStore) handler(n int) model.SnapshotHandler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handlers[n]
}

type stubSubscription struct {
	stops atomic.Int32
}

func (s *stubSubscription) Stop() {
	s.stops.Add(1)
}

type stubReadiness struct {
	ready bool
	path  string
}

func (r stubReadiness) Ready() bool            { return r.ready }
func (r stubReadiness) CollectionPath() string { return r.path }

type stubConfirmer struct {
	answer   bool
	messages []string
}

func (c *stubConfirmer) Confirm(message string) bool {
	c.messages = append(c.messages, message)
	return c.answer
}

// MockImageStorage mocks the ImageStorage interface
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *MockImageStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStorage) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
