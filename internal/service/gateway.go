package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/shoe-inventory/internal/logger"
	"github.com/dtroode/shoe-inventory/internal/model"
)

// DeleteConfirmation is the prompt shown before a record is deleted.
const DeleteConfirmation = "Are you sure you want to delete this shoe record?"

// Gateway issues create, update and delete requests against the shoe
// collection. It never touches the session's record set; results arrive
// through the next subscription push.
type Gateway struct {
	readiness model.Readiness
	store     model.DocumentStore
	confirmer model.Confirmer
	images    model.ImageStorage
	logger    *logger.Logger
	now       func() time.Time
	newKey    func() string
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithImageStorage enables image uploads.
func WithImageStorage(images model.ImageStorage) GatewayOption {
	return func(g *Gateway) { g.images = images }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) { g.now = now }
}

// WithKeyGenerator overrides the idempotency key source.
func WithKeyGenerator(newKey func() string) GatewayOption {
	return func(g *Gateway) { g.newKey = newKey }
}

// NewGateway creates a mutation gateway writing through store.
func NewGateway(
	readiness model.Readiness,
	store model.DocumentStore,
	confirmer model.Confirmer,
	logger *logger.Logger,
	opts ...GatewayOption,
) *Gateway {
	g := &Gateway{
		readiness: readiness,
		store:     store,
		confirmer: confirmer,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newKey:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Create validates candidate and writes a new document with a creation timestamp.
func (g *Gateway) Create(ctx context.Context, candidate model.Candidate) (string, error) {
	if err := g.ready("create"); err != nil {
		return "", err
	}

	fields, err := model.Validate(candidate)
	if err != nil {
		return "", err
	}

	key := g.newKey()
	id, err := g.store.Create(ctx, g.readiness.CollectionPath(), key, fields, g.now())
	if err != nil {
		g.logger.Error("Mutation gateway: failed to add shoe",
			"request_id", key,
			"error", err.Error())
		return "", &model.WriteError{Op: "create", Err: err}
	}

	g.logger.Info("Mutation gateway: shoe added",
		"id", id,
		"request_id", key,
		"size", fields.Size,
		"season", fields.Season)

	return id, nil
}

// Update replaces all mutable fields of the addressed document.
func (g *Gateway) Update(ctx context.Context, id string, candidate model.Candidate) error {
	if err := g.ready("update"); err != nil {
		return err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return &model.MissingIdentifierError{Op: "update"}
	}

	fields, err := model.Validate(candidate)
	if err != nil {
		return err
	}

	if err := g.store.Update(ctx, g.readiness.CollectionPath(), id, fields); err != nil {
		g.logger.Error("Mutation gateway: failed to update shoe",
			"id", id,
			"error", err.Error())
		return &model.WriteError{Op: "update", ID: id, Err: err}
	}

	g.logger.Info("Mutation gateway: shoe updated", "id", id)

	return nil
}

// Delete removes the addressed document after the user confirms.
// It reports false without contacting the store when the user declines.
func (g *Gateway) Delete(ctx context.Context, id string) (bool, error) {
	if err := g.ready("delete"); err != nil {
		return false, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return false, &model.MissingIdentifierError{Op: "delete"}
	}

	if g.confirmer == nil || !g.confirmer.Confirm(DeleteConfirmation) {
		g.logger.Info("Mutation gateway: delete declined", "id", id)
		return false, nil
	}

	if err := g.store.Delete(ctx, g.readiness.CollectionPath(), id); err != nil {
		g.logger.Error("Mutation gateway: failed to delete shoe",
			"id", id,
			"error", err.Error())
		return false, &model.WriteError{Op: "delete", ID: id, Err: err}
	}

	g.logger.Info("Mutation gateway: shoe deleted", "id", id)

	return true, nil
}

// AttachImage uploads an image and returns the URL to put in Candidate.ImageURL.
func (g *Gateway) AttachImage(ctx context.Context, fileName string, reader io.Reader) (string, error) {
	if err := g.ready("upload"); err != nil {
		return "", err
	}
	if g.images == nil {
		return "", fmt.Errorf("image storage is not configured")
	}

	key := g.imageKey(fileName)
	if err := g.images.Upload(ctx, key, reader); err != nil {
		g.logger.Error("Mutation gateway: failed to upload image",
			"key", key,
			"error", err.Error())
		return "", &model.WriteError{Op: "upload image for", Err: err}
	}

	return g.images.URL(key), nil
}

func (g *Gateway) ready(op string) error {
	if g.readiness == nil || g.store == nil || !g.readiness.Ready() {
		return &model.NotReadyError{Op: op}
	}
	return nil
}

func (g *Gateway) imageKey(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/images/%s%s", g.readiness.CollectionPath(), g.newKey(), ext)
}
