package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nuwanwp/docapi/internal/document"
)

// MongoStore is the primary backend, a thin translation of the Store
// contract onto a MongoDB database. The native identifier type is
// primitive.ObjectID; ids that fail ObjectIDFromHex map to ErrMalformedID.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (ms *MongoStore) collection(name string) (*mongo.Collection, error) {
	if name == "" {
		return nil, ErrInvalidCollection
	}
	return ms.db.Collection(name), nil
}

// List returns every document in a collection.
func (ms *MongoStore) List(ctx context.Context, collection string) ([]document.Document, error) {
	return ms.Find(ctx, collection, nil)
}

// Get returns a single document by its ObjectID hex string.
func (ms *MongoStore) Get(ctx context.Context, collection, id string) (document.Document, error) {
	coll, err := ms.collection(collection)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrMalformedID
	}
	var doc document.Document
	if err := coll.FindOne(ctx, bson.M{document.FieldID: oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return doc, nil
}

// Insert stores doc as a new document. The store assigns the id: any
// client-supplied _id is discarded so the identifier invariant holds.
func (ms *MongoStore) Insert(ctx context.Context, collection string, doc document.Document) (string, error) {
	coll, err := ms.collection(collection)
	if err != nil {
		return "", err
	}
	body := doc.Clone()
	if body == nil {
		body = document.Document{}
	}
	delete(body, document.FieldID)
	now := time.Now().UTC()
	body["created_at"] = now
	body["updated_at"] = now

	res, err := coll.InsertOne(ctx, body)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// Update merges the listed fields into an existing document via $set.
func (ms *MongoStore) Update(ctx context.Context, collection, id string, fields document.Document) (document.Document, error) {
	coll, err := ms.collection(collection)
	if err != nil {
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrMalformedID
	}
	set := fields.Clone()
	if set == nil {
		set = document.Document{}
	}
	delete(set, document.FieldID)
	set["updated_at"] = time.Now().UTC()

	res, err := coll.UpdateOne(ctx, bson.M{document.FieldID: oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return ms.Get(ctx, collection, id)
}

// Delete fetches a document, removes it, and returns what was removed.
func (ms *MongoStore) Delete(ctx context.Context, collection, id string) (document.Document, error) {
	coll, err := ms.collection(collection)
	if err != nil {
		return nil, err
	}
	doc, err := ms.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	oid, _ := primitive.ObjectIDFromHex(id)
	res, err := coll.DeleteOne(ctx, bson.M{document.FieldID: oid})
	if err != nil {
		return nil, fmt.Errorf("failed to delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return nil, ErrNotFound
	}
	return doc, nil
}

// Find returns every document matching all filter fields by equality.
func (ms *MongoStore) Find(ctx context.Context, collection string, filter document.Document) ([]document.Document, error) {
	coll, err := ms.collection(collection)
	if err != nil {
		return nil, err
	}
	query := bson.M{}
	for field, value := range filter {
		if field == document.FieldID {
			// An _id filter arrives as a raw string. One that parses is
			// matched as an ObjectID; one that does not matches nothing,
			// so it is left as the string it came in as.
			if s, ok := value.(string); ok {
				if oid, err := primitive.ObjectIDFromHex(s); err == nil {
					query[field] = oid
					continue
				}
			}
		}
		query[field] = value
	}

	cur, err := coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	docs := []document.Document{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

// Ping verifies the connection is alive.
func (ms *MongoStore) Ping(ctx context.Context) error {
	return ms.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (ms *MongoStore) Close(ctx context.Context) error {
	return ms.client.Disconnect(ctx)
}
