package mqtt

import "fmt"

// TopicPrefixLock is the root of every topic this appliance publishes.
//
// Layout: graylogic/lock/{site}/status and graylogic/lock/{site}/event/{kind}
const TopicPrefixLock = "graylogic/lock"

// Topics builds lock topics. It carries no state; use the zero value.
//
//	topic := mqtt.Topics{}.LockEvent("door-001", "access")
//	// Returns: "graylogic/lock/door-001/event/access"
type Topics struct{}

// LockStatus is the retained online/offline topic. The broker publishes
// the last will here when the appliance drops off unexpectedly.
//
// Example: graylogic/lock/door-001/status
func (Topics) LockStatus(siteID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixLock, siteID)
}

// LockEvent is the topic for one kind of lock event (access, doorbell).
//
// Example: graylogic/lock/door-001/event/doorbell
func (Topics) LockEvent(siteID, kind string) string {
	return fmt.Sprintf("%s/%s/event/%s", TopicPrefixLock, siteID, kind)
}

// AllLockEvents matches every event from one site. Handy for operators
// running mosquitto_sub against the broker.
//
// Example: graylogic/lock/door-001/event/#
func (Topics) AllLockEvents(siteID string) string {
	return fmt.Sprintf("%s/%s/event/#", TopicPrefixLock, siteID)
}
