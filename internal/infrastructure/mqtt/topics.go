package mqtt

import (
	"fmt"
	"strings"
)

// TopicPrefix is the root of every Scenecraft topic.
const TopicPrefix = "scenecraft"

// Topic segments.
const (
	segmentEvent  = "event"
	segmentScene  = "scene"
	segmentAction = "action"
	segmentSystem = "system"
)

// Topics provides builders for Scenecraft MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.ObjectEvent("3f2a...", "click")
//	// Returns: "scenecraft/event/3f2a.../click"
type Topics struct{}

// =============================================================================
// Inbound
// =============================================================================

// ObjectEvent returns the topic an external script publishes to in order to
// fire eventType on an object.
//
// Example: scenecraft/event/3f2a/click
func (Topics) ObjectEvent(objectID, eventType string) string {
	return fmt.Sprintf("%s/%s/%s/%s", TopicPrefix, segmentEvent, objectID, eventType)
}

// AllObjectEvents returns the wildcard for every object event.
func (Topics) AllObjectEvents() string {
	return fmt.Sprintf("%s/%s/+/+", TopicPrefix, segmentEvent)
}

// ParseObjectEvent splits an object event topic into its object id and
// event type. ok is false for any other topic shape.
func (Topics) ParseObjectEvent(topic string) (objectID, eventType string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != TopicPrefix || parts[1] != segmentEvent {
		return "", "", false
	}
	if parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}

// =============================================================================
// Outbound
// =============================================================================

// SceneChanged returns the topic carrying change notifications.
//
// Example: scenecraft/scene/changed
func (Topics) SceneChanged() string {
	return fmt.Sprintf("%s/%s/changed", TopicPrefix, segmentScene)
}

// ActionExecuted returns the topic carrying executed interaction actions
// for an object.
//
// Example: scenecraft/action/3f2a
func (Topics) ActionExecuted(objectID string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefix, segmentAction, objectID)
}

// SystemStatus returns the topic for online/offline status. It also carries
// the Last Will and Testament.
//
// Example: scenecraft/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/%s/status", TopicPrefix, segmentSystem)
}

// AllTopics returns the wildcard for every Scenecraft topic.
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
