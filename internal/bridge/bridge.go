package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/scenecraft-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/scenecraft-core/internal/interaction"
	"github.com/nerrad567/scenecraft-core/internal/store"
)

const (
	// outboxSize bounds queued outbound messages; further messages are dropped.
	outboxSize = 64

	inboundQoS  = 1
	outboundQoS = 0
)

// Client is the part of mqtt.Client the bridge uses.
type Client interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Editor is the part of the store the bridge drives.
type Editor interface {
	IsPlayMode() bool
	TriggerObjectEvent(objectID string, ev interaction.EventType) int
	TriggerObjectKeyEvent(objectID string, ev interaction.EventType, key string) int
	Subscribe(store.Listener) (unsubscribe func())
}

// EventBody is the optional JSON body of an inbound event.
type EventBody struct {
	Key string `json:"key,omitempty"`
}

// ChangeMessage is published on every committed store mutation.
type ChangeMessage struct {
	Op        string    `json:"op"`
	Slices    []string  `json:"slices"`
	Timestamp time.Time `json:"timestamp"`
}

type outbound struct {
	topic   string
	payload []byte
}

// Bridge connects the store to MQTT: scripted events in, change
// notifications and executed actions out.
//
// Thread Safety: all methods are safe for concurrent use. Outbound messages
// are published from a single goroutine so store listeners never block on
// the broker.
type Bridge struct {
	client Client
	editor Editor
	logger Logger
	now    func() time.Time

	outbox chan outbound
	done   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
	unsub   func()
}

// New creates a bridge. Call Start to begin.
func New(client Client, editor Editor, logger Logger) *Bridge {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Bridge{
		client: client,
		editor: editor,
		logger: logger,
		now:    time.Now,
		outbox: make(chan outbound, outboxSize),
		done:   make(chan struct{}),
	}
}

// Start subscribes to object event topics and to store changes.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return ErrAlreadyStarted
	}

	if err := b.client.Subscribe(mqtt.Topics{}.AllObjectEvents(), inboundQoS, b.HandleMessage); err != nil {
		return fmt.Errorf("subscribing to object events: %w", err)
	}

	b.wg.Add(1)
	go b.publishLoop()

	b.unsub = b.editor.Subscribe(b.onChange)
	b.started = true
	b.logger.Info("mqtt bridge started", "topic", mqtt.Topics{}.AllObjectEvents())
	return nil
}

// Stop unsubscribes and drains queued outbound messages.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return
	}
	b.started = false
	unsub := b.unsub
	b.unsub = nil
	b.mu.Unlock()

	unsub()
	if err := b.client.Unsubscribe(mqtt.Topics{}.AllObjectEvents()); err != nil {
		b.logger.Warn("unsubscribing from object events", "error", err)
	}
	close(b.done)
	b.wg.Wait()
}

// ─── Inbound ────────────────────────────────────────────────────────

// HandleMessage fires the event named by topic on the object it names.
// Events are honoured only in play mode. A key event may carry
// {"key": "..."} to apply key refinement; without a key every binding
// matches.
func (b *Bridge) HandleMessage(topic string, payload []byte) error {
	objectID, tag, ok := mqtt.Topics{}.ParseObjectEvent(topic)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}
	ev, err := interaction.ParseEventType(tag)
	if err != nil {
		return err
	}

	var body EventBody
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, &body); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
	}

	if !b.editor.IsPlayMode() {
		b.logger.Debug("scripted event ignored outside play mode", "object_id", objectID, "event", tag)
		return nil
	}

	var matched int
	if ev.IsKeyEvent() && body.Key != "" {
		matched = b.editor.TriggerObjectKeyEvent(objectID, ev, body.Key)
	} else {
		matched = b.editor.TriggerObjectEvent(objectID, ev)
	}
	b.logger.Debug("scripted event", "object_id", objectID, "event", tag, "key", body.Key, "matched", matched)
	return nil
}

// ─── Outbound ───────────────────────────────────────────────────────

func (b *Bridge) onChange(c store.Change) {
	b.enqueue(mqtt.Topics{}.SceneChanged(), ChangeMessage{
		Op:        c.Op,
		Slices:    c.Slices.Names(),
		Timestamp: b.now().UTC(),
	})
}

// RecordAction publishes an executed action on the target object's action
// topic. It implements interaction.Recorder.
func (b *Bridge) RecordAction(rec interaction.ActionRecord) {
	b.enqueue(mqtt.Topics{}.ActionExecuted(rec.TargetObjectID), rec)
}

func (b *Bridge) enqueue(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("encoding outbound message", "topic", topic, "error", err)
		return
	}
	select {
	case b.outbox <- outbound{topic: topic, payload: payload}:
	default:
		b.logger.Warn("mqtt outbox full, message dropped", "topic", topic)
	}
}

func (b *Bridge) publishLoop() {
	defer b.wg.Done()
	for {
		select {
		case msg := <-b.outbox:
			b.publish(msg)
		case <-b.done:
			for {
				select {
				case msg := <-b.outbox:
					b.publish(msg)
				default:
					return
				}
			}
		}
	}
}

func (b *Bridge) publish(msg outbound) {
	if err := b.client.Publish(msg.topic, msg.payload, outboundQoS, false); err != nil {
		b.logger.Warn("mqtt publish failed", "topic", msg.topic, "error", err)
	}
}

var _ interaction.Recorder = (*Bridge)(nil)
