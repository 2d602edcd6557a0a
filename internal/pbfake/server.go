// Package pbfake runs an in-process PocketBase lookalike for tests. It
// implements the admin auth, collection and record endpoints the client
// uses, enforces required/unique schema fields, and counts calls per route.
package pbfake

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/blenderbox/pbi18n/pocketbase"
)

// Route names used by Calls and FailNext.
const (
	RouteAuth             = "auth"
	RouteListCollections  = "list_collections"
	RouteCreateCollection = "create_collection"
	RouteListRecords      = "list_records"
	RouteCreateRecord     = "create_record"
)

type collection struct {
	name    string
	schema  []pocketbase.Field
	records []pocketbase.Record
}

type failure struct {
	status  int
	message string
}

// Server is a fake PocketBase instance backed by memory.
type Server struct {
	*httptest.Server

	// TokenTTL is the lifetime of issued admin tokens (default: one hour).
	TokenTTL time.Duration

	// MaxPerPage caps the perPage query parameter (default: 500).
	MaxPerPage int

	mu          sync.Mutex
	secret      []byte
	admins      map[string]string
	order       []string
	collections map[string]*collection
	calls       map[string]int
	failures    map[string][]failure
	nextID      int
}

// New starts a fake server. Close it with Server.Close.
func New() *Server {
	s := &Server{
		TokenTTL:    time.Hour,
		MaxPerPage:  500,
		secret:      []byte("pbfake-secret"),
		admins:      make(map[string]string),
		collections: make(map[string]*collection),
		calls:       make(map[string]int),
		failures:    make(map[string][]failure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+pocketbase.DefaultAuthPath, s.authenticate)
	mux.HandleFunc("POST "+pocketbase.SuperuserAuthPath, s.authenticate)
	mux.HandleFunc("GET /api/collections", s.listCollections)
	mux.HandleFunc("POST /api/collections", s.createCollection)
	mux.HandleFunc("GET /api/collections/{collection}/records", s.listRecords)
	mux.HandleFunc("POST /api/collections/{collection}/records", s.createRecord)

	s.Server = httptest.NewServer(mux)
	return s
}

// AddAdmin registers admin credentials.
func (s *Server) AddAdmin(identity, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[identity] = password
}

// AddCollection creates a collection directly, bypassing the API.
func (s *Server) AddCollection(name string, schema []pocketbase.Field, records ...pocketbase.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCollectionLocked(name, schema)
	for _, r := range records {
		s.insertLocked(s.collections[name], r)
	}
}

// SetRecords replaces every record of an existing collection.
func (s *Server) SetRecords(name string, records ...pocketbase.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[name]
	if !ok {
		return
	}
	col.records = nil
	for _, r := range records {
		s.insertLocked(col, r)
	}
}

// HasCollection reports whether a collection exists.
func (s *Server) HasCollection(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.collections[name]
	return ok
}

// Schema returns the schema a collection was created with.
func (s *Server) Schema(name string) []pocketbase.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.collections[name]; ok {
		return append([]pocketbase.Field(nil), col.schema...)
	}
	return nil
}

// Records returns a copy of a collection's records.
func (s *Server) Records(name string) []pocketbase.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[name]
	if !ok {
		return nil
	}
	out := make([]pocketbase.Record, len(col.records))
	copy(out, col.records)
	return out
}

// Calls returns how many requests hit a route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// FailNext makes the next request to route fail with status and message.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, message: message})
}

// IssueToken returns a signed admin token valid for ttl.
func (s *Server) IssueToken(ttl time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// begin counts the call and reports an injected failure, if one is queued.
func (s *Server) begin(w http.ResponseWriter, route string) bool {
	s.mu.Lock()
	s.calls[route]++
	queue := s.failures[route]
	var f *failure
	if len(queue) > 0 {
		f = &queue[0]
		s.failures[route] = queue[1:]
	}
	s.mu.Unlock()

	if f != nil {
		writeError(w, f.status, f.message, nil)
		return false
	}
	return true
}

func (s *Server) authorized(r *http.Request) bool {
	raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if raw == "" {
		return false
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	return err == nil && token.Valid
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, RouteAuth) {
		return
	}

	var body struct {
		Identity string `json:"identity"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to load the submitted data due to invalid formatting.", nil)
		return
	}

	s.mu.Lock()
	password, ok := s.admins[body.Identity]
	s.mu.Unlock()
	if !ok || password != body.Password {
		writeError(w, http.StatusBadRequest, "Failed to authenticate.", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": s.IssueToken(s.TokenTTL),
		"admin": map[string]any{"email": body.Identity},
	})
}

func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, RouteListCollections) {
		return
	}
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "The request requires admin authorization token to be set.", nil)
		return
	}

	s.mu.Lock()
	items := make([]pocketbase.Collection, 0, len(s.order))
	for _, name := range s.order {
		col := s.collections[name]
		items = append(items, pocketbase.Collection{
			ID:     "col_" + name,
			Name:   name,
			Type:   "base",
			Schema: col.schema,
		})
	}
	s.mu.Unlock()

	s.writePage(w, r, items)
}

func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, RouteCreateCollection) {
		return
	}
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "The request requires admin authorization token to be set.", nil)
		return
	}

	var body pocketbase.Collection
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "Failed to create record.", map[string]any{
			"name": map[string]any{"code": "validation_required", "message": "Cannot be blank."},
		})
		return
	}

	s.mu.Lock()
	for existing := range s.collections {
		if strings.EqualFold(existing, body.Name) {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, "Failed to create record.", map[string]any{
				"name": map[string]any{
					"code":    "validation_collection_name_exists",
					"message": "Collection name must be unique (case insensitive).",
				},
			})
			return
		}
	}
	s.addCollectionLocked(body.Name, body.Schema)
	s.mu.Unlock()

	body.ID = "col_" + body.Name
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, RouteListRecords) {
		return
	}

	name := r.PathValue("collection")
	s.mu.Lock()
	col, ok := s.collections[name]
	var items []pocketbase.Record
	if ok {
		items = make([]pocketbase.Record, len(col.records))
		copy(items, col.records)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Missing collection context.", nil)
		return
	}
	s.writePage(w, r, items)
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, RouteCreateRecord) {
		return
	}
	if !s.authorized(r) {
		writeError(w, http.StatusForbidden, "Only admins can perform this action.", nil)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to load the submitted data due to invalid formatting.", nil)
		return
	}

	name := r.PathValue("collection")
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Missing collection context.", nil)
		return
	}

	if data := validate(col, body); len(data) > 0 {
		writeError(w, http.StatusBadRequest, "Failed to create record.", data)
		return
	}

	record := s.insertLocked(col, body)
	writeJSON(w, http.StatusOK, record)
}

// validate enforces the required and unique flags of the schema.
func validate(col *collection, body map[string]any) map[string]any {
	errs := make(map[string]any)
	for _, field := range col.schema {
		value, present := body[field.Name]
		if field.Required && (!present || value == nil || value == "") {
			errs[field.Name] = map[string]any{"code": "validation_required", "message": "Missing required value."}
			continue
		}
		if field.Unique && present {
			for _, existing := range col.records {
				if existing[field.Name] == value {
					errs[field.Name] = map[string]any{"code": "validation_not_unique", "message": "Value must be unique."}
					break
				}
			}
		}
	}
	return errs
}

func (s *Server) addCollectionLocked(name string, schema []pocketbase.Field) {
	if _, ok := s.collections[name]; ok {
		return
	}
	s.collections[name] = &collection{name: name, schema: schema}
	s.order = append(s.order, name)
}

func (s *Server) insertLocked(col *collection, data map[string]any) pocketbase.Record {
	s.nextID++
	record := pocketbase.Record{
		"id":             fmt.Sprintf("%015d", s.nextID),
		"collectionName": col.name,
	}
	for k, v := range data {
		record[k] = v
	}
	col.records = append(col.records, record)
	return record
}

// writePage serves items with PocketBase list semantics.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, items any) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("perPage"))
	if perPage <= 0 {
		perPage = 30
	}
	if perPage > s.MaxPerPage {
		perPage = s.MaxPerPage
	}

	var all []any
	switch v := items.(type) {
	case []pocketbase.Collection:
		for _, c := range v {
			all = append(all, c)
		}
	case []pocketbase.Record:
		for _, rec := range v {
			all = append(all, rec)
		}
	}

	start := (page - 1) * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}

	totalItems, totalPages := len(all), (len(all)+perPage-1)/perPage
	if q.Get("skipTotal") != "" {
		totalItems, totalPages = -1, -1
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page":       page,
		"perPage":    perPage,
		"totalItems": totalItems,
		"totalPages": totalPages,
		"items":      append([]any{}, all[start:end]...),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	writeJSON(w, status, map[string]any{
		"code":    status,
		"message": message,
		"data":    data,
	})
}
