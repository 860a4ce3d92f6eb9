// Package events carries lock activity from the appliance to its
// best-effort outputs.
//
// The session task calls Dispatcher.Record, which never blocks: events go
// onto a bounded queue and are dropped (and counted) when it is full.
// Dispatcher.Run drains the queue on its own goroutine and hands each
// event to every sink in order. Sink failures are logged and otherwise
// ignored; the lock never waits on a journal, broker or time-series store.
package events
