package pocketbase

import (
	"context"
	"net/http"
	"net/url"
)

func recordsPath(collection string) string {
	return "/api/collections/" + url.PathEscape(collection) + "/records"
}

// ListAll returns every record of collection, following pagination until
// the last page.
func (c *Client) ListAll(ctx context.Context, collection string) ([]Record, error) {
	return listAll[Record](ctx, c, "list records "+collection, recordsPath(collection))
}

// CreateRecord inserts one record and returns it as stored.
func (c *Client) CreateRecord(ctx context.Context, collection string, data map[string]any) (Record, error) {
	var created Record
	if err := c.do(ctx, "create record "+collection, http.MethodPost, recordsPath(collection), nil, data, &created); err != nil {
		return nil, err
	}
	return created, nil
}
