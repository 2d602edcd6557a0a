package pbi18n

import (
	"maps"
	"slices"
)

// TranslationDiff represents the difference between two versions of a
// collection's mapping.
type TranslationDiff struct {
	// Added contains keys that are new (not in the previous version).
	Added []string

	// Removed contains keys that were removed (not in the new version).
	Removed []string

	// Changed contains keys present in both versions whose translation differs.
	Changed []ChangedKey

	// Unchanged counts keys present in both versions with the same translation.
	Unchanged int
}

// ChangedKey represents a key whose translation was modified.
type ChangedKey struct {
	Key string
	Old string
	New string
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Changed   int
	Unchanged int
}

// Stats returns summary statistics for the diff.
func (d *TranslationDiff) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Changed:   len(d.Changed),
		Unchanged: d.Unchanged,
	}
}

// HasChanges returns true if there are any differences.
func (d *TranslationDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// DiffTranslations compares two mappings of the same collection. A nil old
// mapping reports every key of newer as added. Keys are listed in sorted order.
func DiffTranslations(old, newer map[string]string) *TranslationDiff {
	result := &TranslationDiff{}

	for _, key := range slices.Sorted(maps.Keys(newer)) {
		previous, exists := old[key]
		switch {
		case !exists:
			result.Added = append(result.Added, key)
		case previous != newer[key]:
			result.Changed = append(result.Changed, ChangedKey{Key: key, Old: previous, New: newer[key]})
		default:
			result.Unchanged++
		}
	}

	for _, key := range slices.Sorted(maps.Keys(old)) {
		if _, exists := newer[key]; !exists {
			result.Removed = append(result.Removed, key)
		}
	}

	return result
}
