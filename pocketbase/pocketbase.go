// Package pocketbase is a small client for the parts of the PocketBase REST
// API the translation backend needs: paginated record and collection listing,
// collection and record creation, and admin password authentication.
//
// Every call carries its own context and nothing else. Concurrent calls for
// the same or different collections never cancel one another, unlike the
// JavaScript SDK's default auto-cancellation. The client does not retry and
// imposes no timeout of its own; configure those on the *http.Client.
package pocketbase

// Record is a single PocketBase record as decoded from JSON.
type Record map[string]any

// String returns the field as a string when it is present and a string.
func (r Record) String(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Field describes one column of a collection schema.
type Field struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Type     string `json:"type"`
	Unique   bool   `json:"unique"`
}

// Collection is a PocketBase collection definition.
type Collection struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Schema []Field `json:"schema,omitempty"`
}

// listResult is the envelope of every paginated list endpoint.
type listResult[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}
