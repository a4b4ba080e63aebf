package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/shoe-inventory/internal/model"
	"github.com/dtroode/shoe-inventory/internal/testutil"
)

type authEvent struct {
	subject string
	ok      bool
}

func TestIdentity_SignInAnonymous(t *testing.T) {
	manager := NewJWT("secret", time.Hour)
	id := NewIdentity(manager, testutil.MakeNoopLogger())

	var events []authEvent
	unsubscribe := id.OnAuthStateChange(func(subject string, ok bool) {
		events = append(events, authEvent{subject, ok})
	})
	defer unsubscribe()

	subject, err := id.SignInAnonymous(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, subject.ID)

	parsed, err := manager.ParseToken(subject.Token)
	require.NoError(t, err)
	assert.Equal(t, subject.ID, parsed)

	assert.Equal(t, []authEvent{{"", false}, {subject.ID, true}}, events)

	current, ok := id.Current()
	assert.True(t, ok)
	assert.Equal(t, subject, current)
}

func TestIdentity_SignInWithToken(t *testing.T) {
	manager := NewJWT("secret", time.Hour)
	id := NewIdentity(manager, testutil.MakeNoopLogger())

	tok, err := manager.GenerateToken("user-42")
	require.NoError(t, err)

	subject, err := id.SignInWithToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject.ID)
}

func TestIdentity_SignInWithBadToken(t *testing.T) {
	id := NewIdentity(NewJWT("secret", time.Hour), testutil.MakeNoopLogger())

	_, err := id.SignInWithToken(context.Background(), "bogus")
	require.ErrorIs(t, err, model.ErrTokenInvalid)

	_, ok := id.Current()
	assert.False(t, ok)
}

func TestIdentity_SignOutNotifiesAndUnsubscribeStops(t *testing.T) {
	id := NewIdentity(NewJWT("secret", time.Hour), testutil.MakeNoopLogger())

	var events []authEvent
	unsubscribe := id.OnAuthStateChange(func(subject string, ok bool) {
		events = append(events, authEvent{subject, ok})
	})

	subject, err := id.SignInAnonymous(context.Background())
	require.NoError(t, err)
	id.SignOut()
	unsubscribe()
	_, err = id.SignInAnonymous(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []authEvent{{"", false}, {subject.ID, true}, {"", false}}, events)
}

func TestIdentity_CancelledContext(t *testing.T) {
	id := NewIdentity(NewJWT("secret", time.Hour), testutil.MakeNoopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := id.SignInAnonymous(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
