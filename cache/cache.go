// Package cache provides storage backends for loaded translation mappings.
package cache

// Store holds one translation mapping per collection. Entries are replaced
// wholesale by Set; a reader sees either the previous or the new mapping,
// never a mix. Mappings returned by Get are shared and must not be mutated.
type Store interface {
	// Get retrieves the mapping for a collection. Returns nil and false if absent.
	Get(collection string) (map[string]string, bool)

	// Set stores the mapping for a collection, replacing any previous one.
	Set(collection string, translations map[string]string) error

	// Collections returns the names of every stored collection.
	Collections() []string
}
