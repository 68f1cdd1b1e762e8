// Package mqtt provides MQTT connectivity for Scenecraft Core.
//
// The editor uses MQTT as a scripting bus: external tools fire interaction
// events on objects, and the editor announces scene changes and its own
// availability.
//
//	script ──► scenecraft/event/{object_id}/{event_type} ──► bridge ──► store
//	store  ──► bridge ──► scenecraft/scene/changed ──► listeners
//	           LWT    ──► scenecraft/system/status
//
// The client reconnects with exponential backoff and restores its
// subscriptions. TLS is enabled with mqtt.broker.tls.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllObjectEvents(), 1, handler)
package mqtt
