package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nuwanwp/docapi/internal/document"
)

// MemoryStore keeps everything in memory. Data is lost on restart. It
// shares the uuid identifier format with BadgerStore and is safe for
// concurrent use, which makes it the backend of choice for tests and
// local development without a database.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]document.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]document.Document),
	}
}

// List returns every document in a collection.
func (m *MemoryStore) List(ctx context.Context, collection string) ([]document.Document, error) {
	return m.Find(ctx, collection, nil)
}

// Get returns a single document by its uuid string.
func (m *MemoryStore) Get(ctx context.Context, collection, id string) (document.Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrMalformedID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Clone(), nil
}

// Insert stores doc as a new document under a freshly assigned uuid.
func (m *MemoryStore) Insert(ctx context.Context, collection string, doc document.Document) (string, error) {
	if collection == "" {
		return "", ErrInvalidCollection
	}
	body := doc.Clone()
	if body == nil {
		body = document.Document{}
	}
	id := uuid.NewString()
	body[document.FieldID] = id
	now := time.Now().UTC()
	body["created_at"] = now
	body["updated_at"] = now

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection]; !ok {
		m.collections[collection] = make(map[string]document.Document)
	}
	m.collections[collection][id] = body
	return id, nil
}

// Update merges the listed fields into an existing document.
func (m *MemoryStore) Update(ctx context.Context, collection, id string, fields document.Document) (document.Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrMalformedID
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	updated := doc.Clone()
	for field, value := range fields {
		if field == document.FieldID {
			continue
		}
		updated[field] = value
	}
	updated["updated_at"] = time.Now().UTC()
	m.collections[collection][id] = updated
	return updated.Clone(), nil
}

// Delete removes a document and returns what was removed.
func (m *MemoryStore) Delete(ctx context.Context, collection, id string) (document.Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrMalformedID
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.collections[collection], id)
	return doc, nil
}

// Find returns every document matching all filter fields by equality.
func (m *MemoryStore) Find(ctx context.Context, collection string, filter document.Document) ([]document.Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	results := []document.Document{}
	for _, doc := range m.collections[collection] {
		if matchesFilter(doc, filter) {
			results = append(results, doc.Clone())
		}
	}
	return results, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close(ctx context.Context) error { return nil }
