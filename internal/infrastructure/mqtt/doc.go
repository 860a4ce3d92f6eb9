// Package mqtt publishes lock events to an MQTT broker.
//
// The connection is outbound only. The appliance announces itself on a
// retained status topic, registers a last will there for crash detection,
// and publishes one message per access attempt or doorbell ring:
//
//	graylogic/lock/{site}/status
//	graylogic/lock/{site}/event/access
//	graylogic/lock/{site}/event/doorbell
//
// Event payloads carry the outcome and owner name, never the entered code.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, cfg.Site.ID)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishEvent("doorbell", payload)
//
// The broker is optional. When it drops, paho reconnects in the background
// and Publish returns ErrNotConnected until it is back.
package mqtt
