package pocketbase

import (
	"context"
	"net/http"
)

// ListCollections returns every collection definition.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	return listAll[Collection](ctx, c, "list collections", "/api/collections")
}

// CollectionExists lists all collections and searches for name.
// PocketBase has no dedicated existence endpoint.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	collections, err := c.ListCollections(ctx)
	if err != nil {
		return false, err
	}
	for _, col := range collections {
		if col.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateCollection provisions a base collection with the given schema.
// A name clash yields an error matching ErrAlreadyExists.
func (c *Client) CreateCollection(ctx context.Context, name string, schema []Field) (Collection, error) {
	req := Collection{
		Name:   name,
		Type:   "base",
		Schema: schema,
	}

	var created Collection
	if err := c.do(ctx, "create collection "+name, http.MethodPost, "/api/collections", nil, req, &created); err != nil {
		return Collection{}, err
	}
	return created, nil
}
