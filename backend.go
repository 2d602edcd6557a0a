package pbi18n

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blenderbox/pbi18n/cache"
	"github.com/blenderbox/pbi18n/internal/logging"
	"github.com/blenderbox/pbi18n/pocketbase"
)

// BackendType is the module type reported to the host.
const BackendType = "backend"

// Backend loads translation resources from PocketBase and writes missing
// keys back. It is safe for concurrent use.
type Backend struct {
	id         string
	log        logging.Logger
	store      cache.Store
	httpClient *http.Client
	translator ValueTranslator
	sourceLang string
	pageSize   int
	authPath   string

	mu          sync.Mutex
	initialized bool
	disposed    bool
	services    Services
	options     Options
	i18nOptions InitOptions
	remote      RemoteStore
	builtRemote bool
	cancel      context.CancelFunc
	done        chan struct{}

	// authMu keeps concurrent writers from authenticating in parallel.
	authMu sync.Mutex

	loadingMu sync.Mutex
	loading   map[string]int

	disposeOnce sync.Once
}

var _ Module = (*Backend)(nil)

// NewBackend creates a backend. Nothing is contacted until Init.
func NewBackend(opts ...BackendOption) *Backend {
	b := &Backend{
		id:         uuid.NewString(),
		sourceLang: "en",
		loading:    make(map[string]int),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.store == nil {
		b.store = cache.NewInMemoryStore()
	}
	if b.log == nil {
		b.log = logging.Nop()
	}
	b.log = b.log.With("backend", b.id)

	return b
}

// ID returns the random identifier attached to every log record.
func (b *Backend) ID() string {
	return b.id
}

// Type returns BackendType.
func (b *Backend) Type() string {
	return BackendType
}

// Store returns the cache the backend reads through.
func (b *Backend) Store() cache.Store {
	return b.store
}

// Services returns what the host passed to Init.
func (b *Backend) Services() Services {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.services
}

// Options returns the options passed to Init with default strategies filled in.
func (b *Backend) Options() Options {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.options
}

// InitOptions returns the host options passed to Init.
func (b *Backend) InitOptions() InitOptions {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.i18nOptions
}

// Init configures the backend. It builds the PocketBase client,
// authenticates when credentials are given and then starts the refresh loop
// when options.RefetchInterval is positive. Without credentials reads still
// work and the first write fails with a *ConfigError. An authentication
// failure leaves the backend uninitialized so Init can be called again;
// once Init has succeeded further calls fail.
func (b *Backend) Init(ctx context.Context, services Services, options Options, i18nOptions InitOptions) error {
	b.mu.Lock()
	if b.initialized {
		b.mu.Unlock()
		return alreadyInitialized()
	}

	if options.CollectionSchemaCreator == nil {
		options.CollectionSchemaCreator = DefaultSchemaCreator
	}
	if options.ResourceDataCreator == nil {
		options.ResourceDataCreator = DefaultRecordCreator
	}
	b.services = services
	b.options = options
	b.i18nOptions = i18nOptions

	if options.PocketBaseURL == "" {
		b.mu.Unlock()
		return &ConfigError{Field: "PocketBaseURL", Message: "PocketBase URL is required"}
	}

	remote, err := b.remoteLocked()
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.mu.Unlock()

	if options.hasCredentials() {
		if err := remote.Authenticate(ctx, options.AdminName, options.AdminPassword); err != nil {
			b.log.Error(ctx, "admin authentication failed", "admin", options.AdminName, "error", err)
			b.dropBuiltRemote(remote)
			return err
		}
	}

	b.mu.Lock()
	if b.initialized {
		b.mu.Unlock()
		return alreadyInitialized()
	}
	b.initialized = true
	if options.RefetchInterval > 0 && !b.disposed {
		b.startRefreshLocked(options.RefetchInterval)
	}
	b.mu.Unlock()

	b.log.Info(ctx, "backend initialized",
		"url", options.PocketBaseURL,
		"refetch_interval", options.RefetchInterval)

	if !options.hasCredentials() {
		b.log.Warn(ctx, "admin credentials not configured, writes will fail")
	}
	return nil
}

func alreadyInitialized() error {
	return &ConfigError{Field: "Init", Message: "backend is already initialized"}
}

// dropBuiltRemote forgets a client built by a failed Init so a retry with
// different options builds a fresh one. A store set with WithRemoteStore is
// kept.
func (b *Backend) dropBuiltRemote(remote RemoteStore) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.builtRemote && b.remote == remote && !b.initialized {
		b.remote = nil
		b.builtRemote = false
	}
}

// Dispose stops the refresh loop and waits for it to exit. It is safe to
// call more than once and before Init.
func (b *Backend) Dispose() {
	b.disposeOnce.Do(func() {
		b.mu.Lock()
		b.disposed = true
		cancel, done := b.cancel, b.done
		b.mu.Unlock()

		if cancel == nil {
			return
		}
		cancel()
		<-done
		b.log.Debug(context.Background(), "refresh loop stopped")
	})
}

// remoteStore returns the remote handle, building it on first use.
func (b *Backend) remoteStore() (RemoteStore, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remoteLocked()
}

func (b *Backend) remoteLocked() (RemoteStore, error) {
	if b.remote != nil {
		return b.remote, nil
	}
	if b.options.PocketBaseURL == "" {
		return nil, &ConfigError{Field: "PocketBaseURL", Message: "PocketBase URL is required"}
	}

	client, err := pocketbase.NewClient(pocketbase.ClientConfig{
		URL:        b.options.PocketBaseURL,
		HTTPClient: b.httpClient,
		PageSize:   b.pageSize,
		AuthPath:   b.authPath,
		UserAgent:  UserAgent(),
	})
	if err != nil {
		return nil, &ConfigError{Field: "PocketBaseURL", Message: err.Error()}
	}
	b.remote = client
	b.builtRemote = true
	return client, nil
}

func (b *Backend) startRefreshLocked(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})
	go b.refreshLoop(ctx, interval, b.done)
}

// refreshLoop runs Refresh every interval until ctx is cancelled. Ticks
// that fire while a refresh is running are dropped by the ticker.
func (b *Backend) refreshLoop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.Refresh(ctx); err != nil && ctx.Err() == nil {
				b.log.Warn(ctx, "periodic refresh incomplete", "error", err)
			}
		}
	}
}
