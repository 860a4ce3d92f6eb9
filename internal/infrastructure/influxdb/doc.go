// Package influxdb writes lock activity as time-series points.
//
// Two measurements are produced:
//
//	lock_access    tags: site_id, outcome, owner   fields: count, accepted_total, rejected_total
//	lock_doorbell  tags: site_id                   fields: count, total
//
// Writes are asynchronous and batched by the client library. A
// disconnected client drops points silently; asynchronous failures are
// reported through SetOnError.
package influxdb
