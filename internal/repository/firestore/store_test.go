package firestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/shoe-inventory/internal/model"
)

func TestPhysicalPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "default app", path: model.CollectionPath("default-app-id"), want: "artifacts/default-app-id/public/data/shoes"},
		{name: "custom app", path: "store-42/shoes", want: "artifacts/store-42/public/data/shoes"},
		{name: "missing collection", path: "app", wantErr: true},
		{name: "empty app", path: "/shoes", wantErr: true},
		{name: "nested collection", path: "app/shoes/extra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PhysicalPath(tt.path)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapError(t *testing.T) {
	notFound := status.Error(codes.NotFound, "no document to update")
	mapped := mapError(notFound)
	assert.ErrorIs(t, mapped, model.ErrNotFound)
	assert.ErrorIs(t, mapped, notFound)
	assert.Equal(t, codes.NotFound, status.Code(mapped))

	denied := status.Error(codes.PermissionDenied, "missing or insufficient permissions")
	assert.Equal(t, denied, mapError(denied))
	assert.NotErrorIs(t, mapError(denied), model.ErrNotFound)
}
