package model

import (
	"context"
	"time"
)

// ShoesCollection is the collection name under an application id.
const ShoesCollection = "shoes"

// CollectionPath returns the logical shoe collection path for an application.
func CollectionPath(appID string) string {
	return appID + "/" + ShoesCollection
}

// DocumentStore is a realtime document collection addressed by a logical path.
//
// Subscribe delivers the full current record set on every change. Create takes
// an idempotency key: a store that has already accepted a document under that
// key returns the existing id instead of writing a duplicate. Update replaces
// the given fields of an existing document and must not touch its creation
// time. Update and Delete return ErrNotFound for a missing document.
type DocumentStore interface {
	Subscribe(ctx context.Context, collection string, handler SnapshotHandler) (Subscription, error)
	Create(ctx context.Context, collection string, key string, fields ShoeFields, createdAt time.Time) (string, error)
	Update(ctx context.Context, collection string, id string, fields ShoeFields) error
	Delete(ctx context.Context, collection string, id string) error
}

// SnapshotHandler receives subscription events. A subscription calls its
// handler from a single goroutine, in emission order.
type SnapshotHandler interface {
	OnSnapshot(records []Shoe)
	OnError(err error)
}

// Subscription is a live query. Stop blocks until no further handler calls
// can happen. Stop must not be called from inside a handler callback.
type Subscription interface {
	Stop()
}

// SnapshotFuncs adapts two functions to SnapshotHandler.
type SnapshotFuncs struct {
	Snapshot func(records []Shoe)
	Error    func(err error)
}

func (f SnapshotFuncs) OnSnapshot(records []Shoe) {
	if f.Snapshot != nil {
		f.Snapshot(records)
	}
}

func (f SnapshotFuncs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}
