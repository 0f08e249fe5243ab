// Package database provides the MongoDB connection and the bot's stores.
// Reads go through cached DataManagers; writes made while the database is
// unreachable are queued and replayed once the connection comes back.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/PancyStudios/FloppaBotGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout    = 5 * time.Second
	operationTimeout  = 5 * time.Second
	reconnectInterval = 15 * time.Second
)

// OperationKind is the type of a queued write
type OperationKind string

const (
	OpUpdate OperationKind = "update"
	OpInsert OperationKind = "insert"
)

// QueuedOperation represents a pending database write
type QueuedOperation struct {
	CollectionName string
	Kind           OperationKind
	Filter         bson.M
	Update         bson.M      // OpUpdate: full update document, applied with upsert
	Document       interface{} // OpInsert
}

// Database manages the MongoDB connection and the offline write queue
type Database struct {
	url  string
	name string

	client       *mongo.Client
	db           *mongo.Database
	connected    bool
	reconnecting bool
	closed       bool
	collections  map[string]*mongo.Collection
	mu           sync.RWMutex

	// connectMu serializes connection attempts
	connectMu sync.Mutex

	writeQueue []QueuedOperation
	queueMu    sync.Mutex

	stopReconnect     chan struct{}
	reconnectInterval time.Duration
}

// NewDatabase creates a new, unconnected Database instance
func NewDatabase(mongoURL, dbName string) *Database {
	return &Database{
		url:               mongoURL,
		name:              dbName,
		writeQueue:        make([]QueuedOperation, 0),
		stopReconnect:     make(chan struct{}),
		collections:       make(map[string]*mongo.Collection),
		reconnectInterval: reconnectInterval,
	}
}

// Connect establishes a connection to MongoDB.
// On failure the database switches to offline mode and keeps retrying in the background.
// Network calls run outside d.mu, so Connected never waits on a connection attempt.
func (d *Database) Connect(ctx context.Context) error {
	d.connectMu.Lock()
	defer d.connectMu.Unlock()

	d.mu.RLock()
	connected, closed, client := d.connected, d.closed, d.client
	d.mu.RUnlock()

	if connected {
		return nil
	}
	if closed {
		return boterrors.Newf(boterrors.ErrStoreUnavailable, "database.Connect", "database is closed")
	}

	logger.System("Trying to connect to the database...", "DB")

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if client == nil {
		clientOpts := options.Client().
			ApplyURI(d.url).
			SetServerSelectionTimeout(connectTimeout)

		var err error
		client, err = mongo.Connect(ctx, clientOpts)
		if err != nil {
			logger.Critical(fmt.Sprintf("Failed to connect to the database: %v", err), "DB")
			d.MarkOffline()
			return boterrors.New(boterrors.ErrStoreUnavailable, "database.Connect", err)
		}

		d.mu.Lock()
		d.client = client
		d.db = client.Database(d.name)
		d.collections = make(map[string]*mongo.Collection)
		d.mu.Unlock()
	}

	// Ping to verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical(fmt.Sprintf("Failed to verify the database connection: %v", err), "DB")
		d.MarkOffline()
		return boterrors.New(boterrors.ErrStoreUnavailable, "database.Connect", err)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return boterrors.Newf(boterrors.ErrStoreUnavailable, "database.Connect", "database is closed")
	}
	d.connected = true
	d.reconnecting = false
	d.mu.Unlock()

	logger.Success("Connected to the database.", "DB")

	// Sync any queued operations
	go d.syncOfflineWrites()

	return nil
}

// goOffline switches to offline mode and starts reconnection attempts.
// The caller must hold d.mu.
func (d *Database) goOffline() {
	if d.connected {
		logger.Warn("Lost the database connection. Switching to offline mode.", "DB")
	}
	d.connected = false

	if d.reconnecting || d.closed {
		return
	}
	d.reconnecting = true
	go d.reconnectLoop()
}

func (d *Database) reconnectLoop() {
	ticker := time.NewTicker(d.reconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Trying to reconnect to the database...", "DB")
			if err := d.Connect(context.Background()); err == nil {
				return
			}
		case <-d.stopReconnect:
			return
		}
	}
}

// MarkOffline switches to offline mode and makes sure reconnection attempts run.
// Data managers call it when an operation hits a network error.
func (d *Database) MarkOffline() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.goOffline()
}

// Connected reports whether the database is currently reachable
func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Disconnect stops reconnection attempts and closes the database connection
func (d *Database) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	close(d.stopReconnect)

	if d.client != nil {
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		err := d.client.Disconnect(ctx)
		d.connected = false
		if err != nil {
			return err
		}
		logger.Warn("The database has been disconnected", "DB")
	}
	return nil
}

// Ping measures the database response time
func (d *Database) Ping(ctx context.Context) (time.Duration, error) {
	d.mu.RLock()
	client := d.client
	connected := d.connected
	d.mu.RUnlock()

	if !connected || client == nil {
		return 0, boterrors.Newf(boterrors.ErrStoreUnavailable, "database.Ping", "not connected to database")
	}

	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	start := time.Now()
	err := client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns the database connection status
func (d *Database) GetStatus() (string, bool) {
	if d.Connected() {
		return "🟢 | Online", true
	}
	return "🔴 | Offline", false
}

// GetCollection returns a MongoDB collection, or nil before the first successful connection
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}

// AddToWriteQueue adds an operation to the offline write queue
func (d *Database) AddToWriteQueue(op QueuedOperation) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	d.writeQueue = append(d.writeQueue, op)
}

// QueueLen returns the number of writes waiting for the connection
func (d *Database) QueueLen() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.writeQueue)
}

// syncOfflineWrites replays queued operations against the database
func (d *Database) syncOfflineWrites() {
	d.queueMu.Lock()
	if len(d.writeQueue) == 0 {
		d.queueMu.Unlock()
		return
	}

	logger.System(fmt.Sprintf("Syncing %d pending operations with the DB...", len(d.writeQueue)), "DB-Sync")

	operations := make([]QueuedOperation, len(d.writeQueue))
	copy(operations, d.writeQueue)
	d.writeQueue = make([]QueuedOperation, 0)
	d.queueMu.Unlock()

	failedOps := make([]QueuedOperation, 0)

	for _, op := range operations {
		col := d.GetCollection(op.CollectionName)
		if col == nil {
			failedOps = append(failedOps, op)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)

		var err error
		switch op.Kind {
		case OpUpdate:
			_, err = col.UpdateOne(ctx, op.Filter, op.Update, options.Update().SetUpsert(true))
		case OpInsert:
			_, err = col.InsertOne(ctx, op.Document)
			if mongo.IsDuplicateKeyError(err) {
				// Already applied before the connection dropped
				err = nil
			}
		}

		cancel()

		if err != nil {
			logger.Error(fmt.Sprintf("Failed to sync operation for '%s': %v. It will be queued again.", op.CollectionName, err), "DB-Sync")
			failedOps = append(failedOps, op)
		}
	}

	if len(failedOps) > 0 {
		d.queueMu.Lock()
		d.writeQueue = append(failedOps, d.writeQueue...)
		d.queueMu.Unlock()
		logger.Warn(fmt.Sprintf("%d operations could not be synced and will be retried.", len(failedOps)), "DB-Sync")
	} else {
		logger.Success("Offline writes synced.", "DB-Sync")
	}
}

// Client returns the underlying MongoDB client
func (d *Database) Client() *mongo.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.client
}
