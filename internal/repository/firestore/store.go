// Package firestore implements the document store on Cloud Firestore.
//
// The logical collection path "<appId>/shoes" lives at
// artifacts/<appId>/public/data/shoes.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/shoe-inventory/internal/model"
)

var _ model.DocumentStore = (*Store)(nil)

type Store struct {
	client *firestore.Client
}

// NewStore connects to projectID. With FIRESTORE_EMULATOR_HOST set the
// client talks to the emulator.
func NewStore(ctx context.Context, projectID string, opts ...option.ClientOption) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// PhysicalPath maps a logical "<appId>/<collection>" path to its Firestore path.
func PhysicalPath(path string) (string, error) {
	appID, name, ok := strings.Cut(path, "/")
	if !ok || appID == "" || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid collection path %q", path)
	}
	return fmt.Sprintf("artifacts/%s/public/data/%s", appID, name), nil
}

func (s *Store) collection(path string) (*firestore.CollectionRef, error) {
	physical, err := PhysicalPath(path)
	if err != nil {
		return nil, err
	}
	return s.client.Collection(physical), nil
}

// Subscribe streams query snapshots of the collection.
func (s *Store) Subscribe(ctx context.Context, path string, handler model.SnapshotHandler) (model.Subscription, error) {
	ref, err := s.collection(path)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	it := ref.Snapshots(subCtx)

	go func() {
		defer close(sub.done)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if subCtx.Err() == nil && status.Code(err) != codes.Canceled {
					handler.OnError(mapError(err))
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				if subCtx.Err() == nil {
					handler.OnError(mapError(err))
				}
				return
			}

			shoes, err := decode(docs)
			if err != nil {
				handler.OnError(err)
				return
			}
			handler.OnSnapshot(shoes)
		}
	}()

	return sub, nil
}

// Create writes the document under key, so a retried create with the same
// key is a no-op. An empty key gets an auto id.
func (s *Store) Create(ctx context.Context, path string, key string, fields model.ShoeFields, createdAt time.Time) (string, error) {
	ref, err := s.collection(path)
	if err != nil {
		return "", err
	}

	doc := ref.NewDoc()
	if key != "" {
		doc = ref.Doc(key)
	}

	_, err = doc.Create(ctx, model.Shoe{ShoeFields: fields, CreatedAt: createdAt})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return doc.ID, nil
		}
		return "", fmt.Errorf("failed to create document: %w", mapError(err))
	}

	return doc.ID, nil
}

// Update sets the mutable fields and leaves createdAt untouched.
func (s *Store) Update(ctx context.Context, path string, id string, fields model.ShoeFields) error {
	ref, err := s.collection(path)
	if err != nil {
		return err
	}

	_, err = ref.Doc(id).Update(ctx, []firestore.Update{
		{Path: "size", Value: fields.Size},
		{Path: "season", Value: fields.Season.String()},
		{Path: "imageUrl", Value: fields.ImageURL},
		{Path: "details", Value: fields.Details},
	})
	if err != nil {
		return fmt.Errorf("failed to update document: %w", mapError(err))
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, path string, id string) error {
	ref, err := s.collection(path)
	if err != nil {
		return err
	}

	if _, err := ref.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return fmt.Errorf("failed to delete document: %w", mapError(err))
	}

	return nil
}

func decode(docs []*firestore.DocumentSnapshot) ([]model.Shoe, error) {
	shoes := make([]model.Shoe, 0, len(docs))
	for _, doc := range docs {
		var shoe model.Shoe
		if err := doc.DataTo(&shoe); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", doc.Ref.ID, err)
		}
		shoe.ID = doc.Ref.ID
		shoes = append(shoes, shoe)
	}
	return shoes, nil
}

// mapError turns a NotFound status into model.ErrNotFound and keeps the rest.
func mapError(err error) error {
	if status.Code(err) == codes.NotFound {
		return errors.Join(model.ErrNotFound, err)
	}
	return err
}

type subscription struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}
