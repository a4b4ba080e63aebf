package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/shoe-inventory/internal/model"
)

// NotifyChannel is the channel the documents trigger notifies with the
// collection name as payload.
const NotifyChannel = "documents_changed"

var _ model.DocumentStore = (*ShoeRepository)(nil)

// Listener waits for change notifications on NotifyChannel.
type Listener interface {
	Wait(ctx context.Context) (string, error)
	Close()
}

// ListenFunc opens a Listener. The listener is registered before the
// function returns so no change between listening and the first load is lost.
type ListenFunc func(ctx context.Context) (Listener, error)

// ShoeRepository stores shoe documents as JSONB rows and pushes the full
// collection to subscribers on every change.
type ShoeRepository struct {
	db     *sql.DB
	listen ListenFunc
}

// NewShoeRepository creates a repository on conn that listens on its pool.
func NewShoeRepository(conn *Connection) *ShoeRepository {
	return &ShoeRepository{
		db:     conn.DB(),
		listen: PoolListener(conn.Pool),
	}
}

// PoolListener takes a dedicated connection out of pool and listens on it.
func PoolListener(pool *pgxpool.Pool) ListenFunc {
	return func(ctx context.Context) (Listener, error) {
		pooled, err := pool.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire listen connection: %w", err)
		}
		conn := pooled.Hijack()

		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{NotifyChannel}.Sanitize()); err != nil {
			_ = conn.Close(context.Background())
			return nil, fmt.Errorf("failed to listen on %s: %w", NotifyChannel, err)
		}

		return &connListener{conn: conn}, nil
	}
}

type connListener struct {
	conn *pgx.Conn
}

func (l *connListener) Wait(ctx context.Context) (string, error) {
	n, err := l.conn.WaitForNotification(ctx)
	if err != nil {
		return "", err
	}
	return n.Payload, nil
}

func (l *connListener) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = l.conn.Close(ctx)
}

func (r *ShoeRepository) Create(ctx context.Context, collection string, key string, fields model.ShoeFields, createdAt time.Time) (string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode shoe: %w", err)
	}

	// On conflict (collection, request_id) return the id of the existing row
	query := `
		WITH ins AS (
			INSERT INTO documents (collection, id, request_id, data, created_at)
			VALUES ($1, $2, NULLIF($3, ''), $4::jsonb, $5)
			ON CONFLICT (collection, request_id) WHERE request_id IS NOT NULL DO NOTHING
			RETURNING id
		)
		SELECT id FROM ins
		UNION ALL
		SELECT d.id FROM documents d
		WHERE NOT EXISTS (SELECT 1 FROM ins) AND d.collection = $1 AND d.request_id = NULLIF($3, '')
		LIMIT 1`

	var id string
	err = r.db.QueryRowContext(ctx, query, collection, uuid.NewString(), key, string(data), createdAt).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) && key != "" {
		// A concurrent insert with the same key committed after this
		// statement took its snapshot; a new statement sees it.
		return r.findByRequestID(ctx, collection, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert shoe: %w", err)
	}

	return id, nil
}

func (r *ShoeRepository) findByRequestID(ctx context.Context, collection string, key string) (string, error) {
	const query = `SELECT id FROM documents WHERE collection = $1 AND request_id = $2`

	var id string
	if err := r.db.QueryRowContext(ctx, query, collection, key).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to insert shoe: %w", err)
	}

	return id, nil
}

func (r *ShoeRepository) Update(ctx context.Context, collection string, id string, fields model.ShoeFields) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode shoe: %w", err)
	}

	const query = `UPDATE documents SET data = $3::jsonb, updated_at = NOW() WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, collection, id, string(data))
	if err != nil {
		return fmt.Errorf("failed to update shoe: %w", err)
	}

	return expectOneRow(res)
}

func (r *ShoeRepository) Delete(ctx context.Context, collection string, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete shoe: %w", err)
	}

	return expectOneRow(res)
}

// List returns every document of a collection in creation order.
func (r *ShoeRepository) List(ctx context.Context, collection string) ([]model.Shoe, error) {
	const query = `
		SELECT id, data, created_at
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query shoes: %w", err)
	}
	defer rows.Close()

	shoes := make([]model.Shoe, 0)
	for rows.Next() {
		var (
			shoe model.Shoe
			data []byte
		)
		if err := rows.Scan(&shoe.ID, &data, &shoe.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shoe: %w", err)
		}
		if err := json.Unmarshal(data, &shoe.ShoeFields); err != nil {
			return nil, fmt.Errorf("failed to decode shoe %s: %w", shoe.ID, err)
		}
		shoes = append(shoes, shoe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shoes: %w", err)
	}

	return shoes, nil
}

// Subscribe loads the collection, delivers it, and reloads it every time the
// trigger reports a change to the same collection.
func (r *ShoeRepository) Subscribe(ctx context.Context, collection string, handler model.SnapshotHandler) (model.Subscription, error) {
	listener, err := r.listen(ctx)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer listener.Close()

		for {
			shoes, err := r.List(subCtx, collection)
			if err != nil {
				if subCtx.Err() == nil {
					handler.OnError(err)
				}
				return
			}
			handler.OnSnapshot(shoes)

			if err := waitFor(subCtx, listener, collection); err != nil {
				if subCtx.Err() == nil {
					handler.OnError(fmt.Errorf("failed to wait for changes: %w", err))
				}
				return
			}
		}
	}()

	return sub, nil
}

func waitFor(ctx context.Context, listener Listener, collection string) error {
	for {
		payload, err := listener.Wait(ctx)
		if err != nil {
			return err
		}
		if payload == collection {
			return nil
		}
	}
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

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

