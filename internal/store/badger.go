package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/nuwanwp/docapi/internal/document"
)

// BadgerStore is an embedded backend over BadgerDB. Documents are stored
// as JSON under "collection:id" keys and listed by prefix scan. The native
// identifier type is a uuid; ids that fail uuid.Parse map to ErrMalformedID.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a BadgerDB instance at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.NumVersionsToKeep = 1

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// escapeCollection makes the collection segment unambiguous in the
// "collection:id" key space. Entity names come verbatim from the URL, so
// a name containing the separator ("a:b") would otherwise store its
// documents under keys that sit inside collection "a"'s scan prefix.
func escapeCollection(collection string) string {
	collection = strings.ReplaceAll(collection, `\`, `\\`)
	return strings.ReplaceAll(collection, ":", `\:`)
}

func makeKey(collection, id string) []byte {
	return []byte(escapeCollection(collection) + ":" + id)
}

func makeCollectionPrefix(collection string) []byte {
	return []byte(escapeCollection(collection) + ":")
}

// List returns every document in a collection.
func (bs *BadgerStore) List(ctx context.Context, collection string) ([]document.Document, error) {
	return bs.Find(ctx, collection, nil)
}

// Get returns a single document by its uuid string.
func (bs *BadgerStore) Get(ctx context.Context, collection, id string) (document.Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrMalformedID
	}
	return bs.get(collection, id)
}

// get reads and decodes one document without id validation.
func (bs *BadgerStore) get(collection, id string) (document.Document, error) {
	var data []byte
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeKey(collection, id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

func (bs *BadgerStore) put(collection string, doc document.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	id, _ := doc[document.FieldID].(string)
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeKey(collection, id), data)
	})
}

// Insert stores doc as a new document under a freshly assigned uuid.
func (bs *BadgerStore) Insert(ctx context.Context, collection string, doc document.Document) (string, error) {
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

	if err := bs.put(collection, body); err != nil {
		return "", err
	}
	return id, nil
}

// Update merges the listed fields into an existing document.
func (bs *BadgerStore) Update(ctx context.Context, collection, id string, fields document.Document) (document.Document, error) {
	doc, err := bs.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	for field, value := range fields {
		if field == document.FieldID {
			continue
		}
		doc[field] = value
	}
	doc["updated_at"] = time.Now().UTC()

	if err := bs.put(collection, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes a document and returns what was removed.
func (bs *BadgerStore) Delete(ctx context.Context, collection, id string) (document.Document, error) {
	doc, err := bs.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	err = bs.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeKey(collection, id))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}
	return doc, nil
}

// Find scans the collection prefix and returns every document matching all
// filter fields by equality.
func (bs *BadgerStore) Find(ctx context.Context, collection string, filter document.Document) ([]document.Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}
	results := []document.Document{}
	prefix := makeCollectionPrefix(collection)

	err := bs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.Valid(); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var doc document.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return err
			}
			if matchesFilter(doc, filter) {
				results = append(results, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection: %w", err)
	}
	return results, nil
}

// Ping reports whether the database is open.
func (bs *BadgerStore) Ping(ctx context.Context) error {
	if bs.db.IsClosed() {
		return fmt.Errorf("badger database is closed")
	}
	return nil
}

// Close closes the underlying BadgerDB instance.
func (bs *BadgerStore) Close(ctx context.Context) error {
	return bs.db.Close()
}
