package pbi18n

import (
	"context"
	"net/http"
	"sync"

	"github.com/blenderbox/pbi18n/pocketbase"
)

// mockRemote is an in-memory RemoteStore that counts calls and injects failures.
type mockRemote struct {
	mu sync.Mutex

	collections map[string][]pocketbase.Record
	schemas     map[string][]pocketbase.Field
	session     bool

	listErr             map[string]error
	recordErr           map[string]error
	authErr             error
	existsErr           error
	createCollectionErr error
	// raceOnCreate simulates another writer creating the collection between
	// the existence check and the create call.
	raceOnCreate bool

	listCalls             map[string]int
	existsCalls           int
	createCollectionCalls int
	createRecordCalls     int
	authCalls             int

	// blockLists makes that many ListAll calls wait for release.
	blockLists  int
	release     chan struct{}
	listStarted chan string
}

func newMockRemote() *mockRemote {
	return &mockRemote{
		collections: make(map[string][]pocketbase.Record),
		schemas:     make(map[string][]pocketbase.Field),
		listErr:     make(map[string]error),
		recordErr:   make(map[string]error),
		listCalls:   make(map[string]int),
		release:     make(chan struct{}),
		listStarted: make(chan string, 16),
	}
}

func (m *mockRemote) addCollection(name string, records ...pocketbase.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[name] = records
}

func (m *mockRemote) setListErr(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr[name] = err
}

func (m *mockRemote) setSession(valid bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = valid
}

func (m *mockRemote) lists(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls[name]
}

func (m *mockRemote) records(name string) []pocketbase.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pocketbase.Record(nil), m.collections[name]...)
}

func (m *mockRemote) ListAll(ctx context.Context, collection string) ([]pocketbase.Record, error) {
	m.mu.Lock()
	m.listCalls[collection]++
	block := m.blockLists > 0
	if block {
		m.blockLists--
	}
	m.mu.Unlock()

	select {
	case m.listStarted <- collection:
	default:
	}
	if block {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.listErr[collection]; err != nil {
		return nil, err
	}
	records, ok := m.collections[collection]
	if !ok {
		return nil, notFound("list records " + collection)
	}
	return append([]pocketbase.Record(nil), records...), nil
}

func (m *mockRemote) CollectionExists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsCalls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.collections[name]
	return ok, nil
}

func (m *mockRemote) CreateCollection(ctx context.Context, name string, schema []pocketbase.Field) (pocketbase.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCollectionCalls++
	if m.createCollectionErr != nil {
		return pocketbase.Collection{}, m.createCollectionErr
	}
	if m.raceOnCreate {
		m.collections[name] = nil
		m.schemas[name] = schema
	}
	if _, ok := m.collections[name]; ok {
		return pocketbase.Collection{}, nameExists(name)
	}
	m.collections[name] = nil
	m.schemas[name] = schema
	return pocketbase.Collection{Name: name, Type: "base", Schema: schema}, nil
}

func (m *mockRemote) CreateRecord(ctx context.Context, collection string, data map[string]any) (pocketbase.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createRecordCalls++
	if err := m.recordErr[collection]; err != nil {
		return nil, err
	}
	if _, ok := m.collections[collection]; !ok {
		return nil, notFound("create record " + collection)
	}
	record := pocketbase.Record(data)
	m.collections[collection] = append(m.collections[collection], record)
	return record, nil
}

func (m *mockRemote) Authenticate(ctx context.Context, identity, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authCalls++
	if m.authErr != nil {
		return m.authErr
	}
	m.session = true
	return nil
}

func (m *mockRemote) SessionValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

var _ RemoteStore = (*mockRemote)(nil)

func notFound(op string) error {
	return &pocketbase.Error{Op: op, Status: http.StatusNotFound, Message: "The requested resource wasn't found."}
}

func nameExists(name string) error {
	return &pocketbase.Error{
		Op:      "create collection " + name,
		Status:  http.StatusBadRequest,
		Message: "Failed to create record.",
		Data: map[string]any{
			"name": map[string]any{"code": "validation_collection_name_exists", "message": "Collection name must be unique (case insensitive)."},
		},
	}
}

// fakeTranslator prefixes every text with its target language, e.g. "[de] Hello".
type fakeTranslator struct {
	mu       sync.Mutex
	calls    int
	requests []TranslateRequest

	failures int   // fail this many calls first
	failErr  error // error returned by failing calls
	short    bool  // return one result fewer than requested
}

func (f *fakeTranslator) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.requests = append(f.requests, req)
	if f.calls <= f.failures {
		return nil, f.failErr
	}

	out := make([]string, 0, len(req.Texts))
	for _, text := range req.Texts {
		out = append(out, "["+req.TargetLang+"] "+text)
	}
	if f.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeTranslator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeTranslator) Requests() []TranslateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TranslateRequest(nil), f.requests...)
}
