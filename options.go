package pbi18n

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/blenderbox/pbi18n/cache"
	"github.com/blenderbox/pbi18n/internal/logging"
)

// Options configure a backend once, at Init.
type Options struct {
	PocketBaseURL   string        // PocketBase base URL (required)
	AdminName       string        // Admin identity used for writes
	AdminPassword   string        // Admin password used for writes
	RefetchInterval time.Duration // Refresh period for cached collections (0 disables)

	CollectionSchemaCreator SchemaCreator // Schema of auto-provisioned collections (default: DefaultSchemaCreator)
	ResourceDataCreator     RecordCreator // Record written for a missing key (default: DefaultRecordCreator)
}

// hasCredentials reports whether both admin name and password are set.
func (o Options) hasCredentials() bool {
	return o.AdminName != "" && o.AdminPassword != ""
}

// BackendOption is a functional option for configuring the Backend.
type BackendOption func(*Backend)

// WithStore sets the translation cache storage (default: cache.NewInMemoryStore()).
func WithStore(store cache.Store) BackendOption {
	return func(b *Backend) {
		b.store = store
	}
}

// WithLogger sets the logger. Records carry a backend=<id> attribute.
func WithLogger(l *slog.Logger) BackendOption {
	return func(b *Backend) {
		b.log = logging.NewSlogLogger(l)
	}
}

// WithHTTPClient sets the HTTP client used to reach PocketBase.
func WithHTTPClient(c *http.Client) BackendOption {
	return func(b *Backend) {
		b.httpClient = c
	}
}

// WithRemoteStore replaces the PocketBase client built at Init.
func WithRemoteStore(r RemoteStore) BackendOption {
	return func(b *Backend) {
		b.remote = r
	}
}

// WithValueTranslator enables prefilling missing values for languages other
// than the source language.
func WithValueTranslator(t ValueTranslator) BackendOption {
	return func(b *Backend) {
		b.translator = t
	}
}

// WithSourceLanguage sets the language missing values are written in (default: "en").
func WithSourceLanguage(lang string) BackendOption {
	return func(b *Backend) {
		b.sourceLang = lang
	}
}

// WithPageSize sets the page size used when listing records.
func WithPageSize(n int) BackendOption {
	return func(b *Backend) {
		b.pageSize = n
	}
}

// WithAuthPath sets the admin authentication endpoint, e.g.
// pocketbase.SuperuserAuthPath for PocketBase v0.23 and later.
func WithAuthPath(path string) BackendOption {
	return func(b *Backend) {
		b.authPath = path
	}
}
