package pbi18n

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/blenderbox/pbi18n/pocketbase"
)

// Read returns the translations of namespace in language. A cached mapping
// is returned without contacting PocketBase; otherwise the whole collection
// is listed, cached and returned. The returned map is shared with the cache
// and must not be modified.
//
// Concurrent reads of an uncached collection each list it; the last one to
// finish wins the cache entry.
func (b *Backend) Read(ctx context.Context, language, namespace string) (map[string]string, error) {
	collection := CollectionName(language, namespace)

	if translations, ok := b.store.Get(collection); ok {
		return translations, nil
	}

	remote, err := b.remoteStore()
	if err != nil {
		return nil, err
	}

	b.markLoading(collection)
	defer b.unmarkLoading(collection)

	translations, err := load(ctx, remote, collection)
	if err != nil {
		b.log.Debug(ctx, "loading collection failed", "collection", collection, "error", err)
		return nil, err
	}

	if err := b.store.Set(collection, translations); err != nil {
		b.log.Warn(ctx, "caching collection failed", "collection", collection, "error", err)
	}
	b.log.Debug(ctx, "collection loaded", "collection", collection, "keys", len(translations))

	return translations, nil
}

// Refresh reloads every cached or loading collection concurrently and
// replaces its cache entry. A collection that fails to load keeps its
// previous mapping; the first such error is returned once all loads finish.
func (b *Backend) Refresh(ctx context.Context) error {
	remote, err := b.remoteStore()
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, collection := range b.refreshTargets() {
		g.Go(func() error {
			return b.refreshCollection(ctx, remote, collection)
		})
	}
	return g.Wait()
}

func (b *Backend) refreshCollection(ctx context.Context, remote RemoteStore, collection string) error {
	previous, _ := b.store.Get(collection)

	translations, err := load(ctx, remote, collection)
	if err != nil {
		b.log.Warn(ctx, "refreshing collection failed, keeping cached copy", "collection", collection, "error", err)
		return err
	}

	if err := b.store.Set(collection, translations); err != nil {
		b.log.Warn(ctx, "caching collection failed", "collection", collection, "error", err)
		return err
	}

	if diff := DiffTranslations(previous, translations); diff.HasChanges() {
		stats := diff.Stats()
		b.log.Info(ctx, "collection refreshed",
			"collection", collection,
			"added", stats.Added,
			"removed", stats.Removed,
			"changed", stats.Changed)
	}
	return nil
}

// refreshTargets returns the cached collections plus those still loading.
func (b *Backend) refreshTargets() []string {
	targets := b.store.Collections()

	b.loadingMu.Lock()
	for collection := range b.loading {
		targets = append(targets, collection)
	}
	b.loadingMu.Unlock()

	slices.Sort(targets)
	return slices.Compact(targets)
}

func (b *Backend) markLoading(collection string) {
	b.loadingMu.Lock()
	defer b.loadingMu.Unlock()
	b.loading[collection]++
}

func (b *Backend) unmarkLoading(collection string) {
	b.loadingMu.Lock()
	defer b.loadingMu.Unlock()
	if b.loading[collection] <= 1 {
		delete(b.loading, collection)
		return
	}
	b.loading[collection]--
}

// Loading returns the collections with a load in flight.
func (b *Backend) Loading() []string {
	b.loadingMu.Lock()
	defer b.loadingMu.Unlock()
	return slices.Sorted(maps.Keys(b.loading))
}

// load lists a collection and converts its records to a mapping.
func load(ctx context.Context, remote RemoteStore, collection string) (map[string]string, error) {
	records, err := remote.ListAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	return recordsToMapping(records), nil
}

// recordsToMapping maps each record's key to its translation. Records
// without a usable key are skipped; a missing translation becomes "".
func recordsToMapping(records []pocketbase.Record) map[string]string {
	translations := make(map[string]string, len(records))
	for _, record := range records {
		key, ok := record.String(KeyField)
		if !ok || key == "" {
			continue
		}
		translations[key] = fieldString(record[TranslationField])
	}
	return translations
}

func fieldString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
