// Package pbi18n is a translation backend that keeps i18n resources in
// PocketBase collections.
//
// Each (language, namespace) pair maps to one collection named
// "<language>_<namespace>" whose records carry a key and its translation.
// Reads go through a per-collection cache that is filled on first use and,
// optionally, refreshed on a fixed interval. Missing keys reported by the
// host are written back as new records; the collection is created on the
// first write if it does not exist yet.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "time"
//
//	    "github.com/blenderbox/pbi18n"
//	    "github.com/blenderbox/pbi18n/cache"
//	)
//
//	func main() {
//	    b := pbi18n.NewBackend(pbi18n.WithStore(cache.NewInMemoryStore()))
//	    defer b.Dispose()
//
//	    err := b.Init(context.Background(), nil, pbi18n.Options{
//	        PocketBaseURL:   "http://127.0.0.1:8090",
//	        AdminName:       "admin@example.com",
//	        AdminPassword:   os.Getenv("PB_ADMIN_PASSWORD"),
//	        RefetchInterval: time.Minute,
//	    }, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    common, err := b.Read(ctx, "en", "common")
//	    ...
//	    err = b.Create(ctx, []string{"en", "de"}, "common", "greeting", "Hello")
//	}
package pbi18n
