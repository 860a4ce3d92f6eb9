// Package audit is the append-only access journal stored in the
// access_events table.
//
// Every verdict and doorbell ring is written once and never updated.
// Rows carry the outcome, owner name and running totals. Entered digits
// are never stored.
package audit
