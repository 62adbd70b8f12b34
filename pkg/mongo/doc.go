// Package mongo provides MongoDB connection management for services that keep
// session state in a document store.
//
// The package emphasizes operational reliability through environment-based
// configuration, retry logic, and connection pooling defaults that work
// without manual tuning. Within this module a database handle obtained here
// backs [keyvalue.NewMongo], an alternative durable tier for session records.
//
// Key features:
//   - Environment-driven configuration eliminates deployment complexity
//   - Built-in retry logic handles transient connection failures gracefully
//   - Health check integration for Kubernetes/Docker orchestration
//   - Error types compatible with errors.Is() for clean error handling
//
// # Usage
//
//	import (
//		"context"
//
//		"github.com/stayware/sessionkit/pkg/keyvalue"
//		"github.com/stayware/sessionkit/pkg/mongo"
//	)
//
//	func main() {
//		cfg := mongo.Config{
//			ConnectionURL: "mongodb://localhost:27017",
//		}
//
//		db, err := mongo.NewWithDatabase(context.Background(), cfg, "sessions")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer db.Client().Disconnect(context.Background())
//
//		store := keyvalue.NewMongo(db, "kv_entries")
//		_ = store
//
//		// Wire health check
//		health := mongo.Healthcheck(db.Client())
//		if err := health(context.Background()); err != nil {
//			log.Println("mongo is unavailable:", err)
//		}
//	}
//
// # Configuration
//
// Configuration is entirely environment-driven to simplify deployment across
// development, staging, and production environments. Refer to the field tags
// in Config for exact variable names and defaults.
//
// # Error Handling
//
// Connection failures are wrapped in package sentinels so callers can use
// errors.Is() to check for specific failure scenarios and implement
// appropriate retry or fallback logic.
package mongo
