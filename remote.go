package pbi18n

import (
	"context"

	"github.com/blenderbox/pbi18n/pocketbase"
)

// RemoteStore is the subset of the PocketBase client the backend uses.
// *pocketbase.Client implements it; tests substitute their own.
type RemoteStore interface {
	ListAll(ctx context.Context, collection string) ([]pocketbase.Record, error)
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, name string, schema []pocketbase.Field) (pocketbase.Collection, error)
	CreateRecord(ctx context.Context, collection string, data map[string]any) (pocketbase.Record, error)
	Authenticate(ctx context.Context, identity, password string) error
	SessionValid() bool
}

var _ RemoteStore = (*pocketbase.Client)(nil)
