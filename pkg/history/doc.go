// Package history records session lifecycle events for later inspection:
// when sessions were created, why they were invalidated, and when their IDs
// rotated. It plugs into the session manager through the session.EventSink
// interface.
//
// # Architecture
//
// A Recorder accepts events without blocking the caller, batches them on a
// background worker and hands each batch to a Store. Three stores ship with
// the package:
//
//   - Memory        – capped in-memory ring, useful for tests and debug UIs
//   - KeyvalueStore – capped JSON log persisted through pkg/keyvalue, so
//     history survives restarts alongside the session itself
//   - SearchStore   – indexes events into OpenSearch for fleet-wide
//     security analysis
//
// The Recorder never pushes backpressure onto session operations: when the
// buffer is full, events are dropped and counted rather than queued
// unboundedly or written synchronously.
//
// # Usage
//
//	store := history.NewKeyvalueStore(plainStore, 100)
//	recorder := history.NewRecorder(store, history.Options{})
//	defer recorder.Close(context.Background())
//
//	manager := session.New(
//	    session.WithEventSink(recorder),
//	    // ...
//	)
//
// Flushing is governed by Options.BatchSize and Options.BatchTimeout;
// Close drains anything still buffered before returning.
package history
