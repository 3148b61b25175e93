// Package store provides the pluggable document storage layer. Every
// backend exposes the same collection-oriented operations over schema-less
// documents; collections are created implicitly by the first insert.
package store

import (
	"context"
	"errors"

	"github.com/nuwanwp/docapi/internal/document"
)

// Common errors
var (
	ErrNotFound          = errors.New("document not found")
	ErrMalformedID       = errors.New("malformed document id")
	ErrInvalidCollection = errors.New("invalid collection")
)

// Store is the interface every storage backend implements.
//
// Get, Update and Delete validate the id against the backend's native
// identifier format first and return ErrMalformedID when it does not
// parse, so the same malformed-id contract applies uniformly across
// backends. List and Find never parse an id and can never produce that
// error; referencing an unknown collection yields an empty result.
type Store interface {
	// List returns every document in a collection.
	List(ctx context.Context, collection string) ([]document.Document, error)

	// Get returns a single document by id.
	Get(ctx context.Context, collection, id string) (document.Document, error)

	// Insert stores doc as a new document and returns the assigned id.
	// The backend stamps created_at and updated_at.
	Insert(ctx context.Context, collection string, doc document.Document) (string, error)

	// Update merges the listed fields into an existing document, leaving
	// untouched fields intact, restamps updated_at, and returns the
	// updated document. The _id field is never merged.
	Update(ctx context.Context, collection, id string, fields document.Document) (document.Document, error)

	// Delete removes a document and returns it as it was stored.
	Delete(ctx context.Context, collection, id string) (document.Document, error)

	// Find returns every document matching all filter fields by equality.
	// A filter _id that does not parse as a native id matches nothing.
	Find(ctx context.Context, collection string, filter document.Document) ([]document.Document, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}
