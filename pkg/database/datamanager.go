package database

import (
	"context"
	"fmt"
	"sort"
	"strings"

	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
	}
}

// DataManager provides LRU-cached access to a MongoDB collection.
// A nil result with a nil error from Update or Insert means the write was
// queued because the database is offline.
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	cache      *lru.Cache[string, *T]
	options    DataManagerOptions
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 && opts[0].MaxCacheSize > 0 {
		dmOptions = opts[0]
	}

	// lru.New only fails on a non-positive size
	cache, _ := lru.New[string, *T](dmOptions.MaxCacheSize)

	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		cache:      cache,
		options:    dmOptions,
	}
}

// Name returns the collection name
func (dm *DataManager[T]) Name() string {
	return dm.name
}

// collection resolves the collection lazily, since the first connection may come late
func (dm *DataManager[T]) collection(op string) (*mongo.Collection, error) {
	if !dm.dbInstance.Connected() {
		return nil, boterrors.Newf(boterrors.ErrStoreUnavailable, op, "database not connected")
	}
	col := dm.dbInstance.GetCollection(dm.name)
	if col == nil {
		return nil, boterrors.Newf(boterrors.ErrStoreUnavailable, op, "collection %q unavailable", dm.name)
	}
	return col, nil
}

// generateCacheKey creates a unique, deterministic key from a query
// It sorts the keys to ensure consistent ordering regardless of map iteration order
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

// handleError marks the database offline on network failures
func (dm *DataManager[T]) handleError(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		dm.dbInstance.MarkOffline()
		return boterrors.New(boterrors.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Get retrieves a document from cache or database. It returns nil, nil when no document matches.
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)

	if cached, ok := dm.cache.Get(cacheKey); ok {
		return cached, nil
	}

	op := dm.name + ".Get"
	col, err := dm.collection(op)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var result T
	if err := col.FindOne(ctx, query).Decode(&result); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Failed to read from the DB (%s): %v", dm.name, err), "DataManager")
		return nil, dm.handleError(op, err)
	}

	dm.cache.Add(cacheKey, &result)
	return &result, nil
}

// GetAll retrieves all documents matching a query from the database, bypassing the cache
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M) ([]*T, error) {
	op := dm.name + ".GetAll"
	col, err := dm.collection(op)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*operationTimeout)
	defer cancel()

	cursor, err := col.Find(ctx, query)
	if err != nil {
		return nil, dm.handleError(op, err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var results []*T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn(fmt.Sprintf("Skipping undecodable document in '%s': %v", dm.name, err), "DataManager")
			continue
		}
		results = append(results, &doc)
	}

	return results, cursor.Err()
}

// Update applies an update document with upsert and returns the updated document
func (dm *DataManager[T]) Update(ctx context.Context, query bson.M, update bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)
	op := dm.name + ".Update"

	queued := QueuedOperation{
		CollectionName: dm.name,
		Kind:           OpUpdate,
		Filter:         query,
		Update:         update,
	}

	col, err := dm.collection(op)
	if err != nil {
		// Queue for later
		logger.Warn(fmt.Sprintf("DB offline. Queueing write for '%s'", dm.name), "DataManager")
		dm.cache.Remove(cacheKey)
		dm.dbInstance.AddToWriteQueue(queued)
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	// Concurrent updates may finish out of order; the next Get reloads
	dm.cache.Remove(cacheKey)

	var result T
	if err := col.FindOneAndUpdate(ctx, query, update, opts).Decode(&result); err != nil {
		return nil, dm.sentWriteFailed(op, queued, err)
	}

	dm.cache.Remove(cacheKey)
	return &result, nil
}

// Insert writes a new document. Inserts are never cached.
func (dm *DataManager[T]) Insert(ctx context.Context, doc *T) error {
	op := dm.name + ".Insert"

	queued := QueuedOperation{
		CollectionName: dm.name,
		Kind:           OpInsert,
		Document:       doc,
	}

	col, err := dm.collection(op)
	if err != nil {
		logger.Warn(fmt.Sprintf("DB offline. Queueing insert for '%s'", dm.name), "DataManager")
		dm.dbInstance.AddToWriteQueue(queued)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		return dm.sentWriteFailed(op, queued, err)
	}
	return nil
}

// sentWriteFailed handles a write that failed after it was sent to the server,
// where a network error leaves it unknown whether the write was applied.
// Only inserts are queued: a replayed insert whose _id already exists counts
// as applied. Updates such as $inc would apply twice, so they fail with
// ErrStoreUnavailable instead.
func (dm *DataManager[T]) sentWriteFailed(op string, queued QueuedOperation, err error) error {
	if queued.Kind == OpInsert && mongo.IsNetworkError(err) {
		logger.Error(fmt.Sprintf("Network error on insert for '%s'. Queueing the write.", dm.name), "DataManager")
		dm.dbInstance.MarkOffline()
		dm.dbInstance.AddToWriteQueue(queued)
		return nil
	}
	logger.Warn(fmt.Sprintf("Failed to write to the DB (%s): %v", dm.name, err), "DataManager")
	return dm.handleError(op, err)
}

// Invalidate drops the cached document for a query
func (dm *DataManager[T]) Invalidate(query bson.M) {
	dm.cache.Remove(dm.generateCacheKey(query))
}

// ClearCache clears the entire cache
func (dm *DataManager[T]) ClearCache() {
	dm.cache.Purge()
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	return dm.cache.Len()
}

// PrimeCache logs that the cache is ready (caches are filled on demand)
func (dm *DataManager[T]) PrimeCache() {
	logger.System(fmt.Sprintf("Cache for '%s' ready (max size: %d). Filled on demand.", dm.name, dm.options.MaxCacheSize), "DataManager")
}
