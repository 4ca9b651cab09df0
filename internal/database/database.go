package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"devicepulse/internal/config"
)

const (
	connectTimeout = 10 * time.Second
	retryAttempts  = 3
	retryInterval  = 2 * time.Second
)

// Connect establishes a single shared MongoDB client and returns a handle
// to the configured database. Every repository is constructed from this
// one handle so connection pooling is reused across the process.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	var lastErr error

	for attempt := 0; attempt < retryAttempts; attempt++ {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.MongoURL).
				SetConnectTimeout(connectTimeout).
				SetRetryWrites(true).
				SetRetryReads(true),
		)
		if err == nil {
			if err = client.Ping(ctx, nil); err == nil {
				log.Println("Connected to database successfully")
				return client.Database(cfg.MongoDatabase), nil
			}
			// The client dialed but the ping failed; release it so
			// each retry does not leak a connection pool.
			if derr := client.Disconnect(ctx); derr != nil {
				log.Printf("[WARN] Disconnect after failed ping: %v", derr)
			}
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to database: %w", lastErr)
		case <-time.After(retryInterval):
		}
	}

	return nil, fmt.Errorf("failed to connect to database: %w", lastErr)
}
