package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when the addressed document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotReady is the sentinel wrapped by NotReadyError.
	ErrNotReady = errors.New("store or identity not ready")
)

// ValidationError reports a candidate record that cannot be stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotReadyError is returned when a write is attempted before sign-in
// completed or before the store handle exists.
type NotReadyError struct {
	Op string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%s: database not ready, please wait", e.Op)
}

func (e *NotReadyError) Unwrap() error {
	return ErrNotReady
}

// MissingIdentifierError is returned by update and delete without a record id.
type MissingIdentifierError struct {
	Op string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("cannot %s shoe: ID is missing", e.Op)
}

// SyncError is a session-fatal authentication or subscription failure.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// WriteError is a store rejection of a create, update or delete.
type WriteError struct {
	Op  string
	ID  string
	Err error
}

func (e *WriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to %s shoe: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s shoe %s: %v", e.Op, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
