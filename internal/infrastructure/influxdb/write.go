package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	measurementAccess   = "lock_access"
	measurementDoorbell = "lock_doorbell"
)

// WriteAccessAttempt records one PIN verdict. Owner is empty for rejected
// attempts. Totals are the running accepted/rejected counts after this
// attempt, so dashboards can graph them without summing.
func (c *Client) WriteAccessAttempt(outcome, owner string, accepted, rejected uint64, at time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(accessPoint(c.siteID, outcome, owner, accepted, rejected, at))
}

// WriteDoorbellRing records one doorbell press.
func (c *Client) WriteDoorbellRing(total uint64, at time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(doorbellPoint(c.siteID, total, at))
}

func accessPoint(siteID, outcome, owner string, accepted, rejected uint64, at time.Time) *write.Point {
	tags := map[string]string{
		"site_id": siteID,
		"outcome": outcome,
	}
	if owner != "" {
		tags["owner"] = owner
	}

	return write.NewPoint(
		measurementAccess,
		tags,
		map[string]interface{}{
			"count":          int64(1),
			"accepted_total": accepted,
			"rejected_total": rejected,
		},
		at,
	)
}

func doorbellPoint(siteID string, total uint64, at time.Time) *write.Point {
	return write.NewPoint(
		measurementDoorbell,
		map[string]string{"site_id": siteID},
		map[string]interface{}{
			"count": int64(1),
			"total": total,
		},
		at,
	)
}
