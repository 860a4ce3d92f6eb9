package influxdb

import (
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

func tagMap(p *write.Point) map[string]string {
	m := make(map[string]string)
	for _, tag := range p.TagList() {
		m[tag.Key] = tag.Value
	}
	return m
}

func fieldMap(p *write.Point) map[string]interface{} {
	m := make(map[string]interface{})
	for _, f := range p.FieldList() {
		m[f.Key] = f.Value
	}
	return m
}

func TestAccessPoint(t *testing.T) {
	at := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	t.Run("accepted carries owner", func(t *testing.T) {
		p := accessPoint("door-001", "accepted", "Mrs Leyla", 3, 1, at)

		if p.Name() != measurementAccess {
			t.Errorf("Name() = %q", p.Name())
		}
		if !p.Time().Equal(at) {
			t.Errorf("Time() = %v, want %v", p.Time(), at)
		}
		tags := tagMap(p)
		if tags["site_id"] != "door-001" || tags["outcome"] != "accepted" || tags["owner"] != "Mrs Leyla" {
			t.Errorf("tags = %v", tags)
		}
		fields := fieldMap(p)
		if len(fields) != 3 {
			t.Errorf("fields = %v, want count and two totals", fields)
		}
	})

	t.Run("rejected has no owner tag", func(t *testing.T) {
		p := accessPoint("door-001", "rejected", "", 0, 4, at)

		if _, ok := tagMap(p)["owner"]; ok {
			t.Error("rejected point should not carry an owner tag")
		}
	})
}

func TestDoorbellPoint(t *testing.T) {
	p := doorbellPoint("door-001", 7, time.Now())

	if p.Name() != measurementDoorbell {
		t.Errorf("Name() = %q", p.Name())
	}
	if tags := tagMap(p); len(tags) != 1 || tags["site_id"] != "door-001" {
		t.Errorf("tags = %v", tags)
	}
	if _, ok := fieldMap(p)["total"]; !ok {
		t.Error("missing total field")
	}
}

func TestWriteWhileDisconnected(t *testing.T) {
	c := &Client{siteID: "door-001"}

	// writeAPI is nil; these must return before touching it.
	c.WriteAccessAttempt("accepted", "Mr Harrman", 1, 0, time.Now())
	c.WriteDoorbellRing(1, time.Now())
	c.Flush()
}
