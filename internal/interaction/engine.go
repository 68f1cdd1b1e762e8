package interaction

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Store is what the engine needs from the scene store.
//
// Every method must treat an unknown id as a no-op. The engine calls these
// without holding any lock of its own.
type Store interface {
	// Interaction returns a copy of the record for objectID.
	Interaction(objectID string) (ObjectInteraction, bool)

	// SetObjectCurrentState applies a state's overrides to the object and
	// records it as current.
	SetObjectCurrentState(objectID, stateID string)

	// ObjectIDs returns the ids of all objects in the scene.
	ObjectIDs() []string
}

// AnimationHook receives playAnimation and stopAnimation actions.
// The core defines no animation semantics; the default hook does nothing.
type AnimationHook interface {
	PlayAnimation(objectID string, action ActionConfig)
	StopAnimation(objectID string, action ActionConfig)
}

// ActionRecord describes one executed action.
type ActionRecord struct {
	SourceObjectID string     `json:"source_object_id"`
	TargetObjectID string     `json:"target_object_id"`
	RuleID         string     `json:"rule_id"`
	ActionID       string     `json:"action_id"`
	Type           ActionType `json:"type"`
	TargetStateID  string     `json:"target_state_id,omitempty"`
	DelayMS        int        `json:"delay_ms"`
	ExecutedAt     time.Time  `json:"executed_at"`
}

// Recorder observes executed actions (telemetry, WebSocket broadcast).
type Recorder interface {
	RecordAction(rec ActionRecord)
}

// PendingAction describes a scheduled delayed action.
type PendingAction struct {
	Token          uint64     `json:"token"`
	SourceObjectID string     `json:"source_object_id"`
	TargetObjectID string     `json:"target_object_id"`
	RuleID         string     `json:"rule_id"`
	Type           ActionType `json:"type"`
	DueAt          time.Time  `json:"due_at"`
}

type pendingAction struct {
	info   PendingAction
	action ActionConfig
	timer  Timer
}

// Engine evaluates events against interaction rules and runs their actions.
//
// Thread Safety: all methods are safe for concurrent use. Delayed actions run
// on Clock goroutines and re-enter the Store through its public methods.
type Engine struct {
	store  Store
	clock  Clock
	logger Logger

	mu        sync.Mutex
	hook      AnimationHook
	recorders []Recorder
	pending   map[uint64]*pendingAction
	nextToken uint64
}

// NewEngine creates an interaction engine.
//
// Parameters:
//   - store: record lookup and state application
//   - clock: scheduler for delayed actions (nil = RealClock)
//   - logger: Logger instance (nil = discard)
func NewEngine(store Store, clock Clock, logger Logger) *Engine {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		store:   store,
		clock:   clock,
		logger:  logger,
		hook:    noopHook{},
		pending: make(map[uint64]*pendingAction),
	}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	e.mu.Lock()
	e.logger = logger
	e.mu.Unlock()
}

// SetAnimationHook installs the playAnimation/stopAnimation extension point.
func (e *Engine) SetAnimationHook(hook AnimationHook) {
	if hook == nil {
		hook = noopHook{}
	}
	e.mu.Lock()
	e.hook = hook
	e.mu.Unlock()
}

// AddRecorder registers an observer of executed actions.
func (e *Engine) AddRecorder(r Recorder) {
	if r == nil {
		return
	}
	e.mu.Lock()
	e.recorders = append(e.recorders, r)
	e.mu.Unlock()
}

// Trigger evaluates ev on objectID. Key bindings are not checked; the caller
// is expected to have matched the key already. It returns the number of
// rules that matched.
func (e *Engine) Trigger(objectID string, ev EventType) int {
	oi, ok := e.store.Interaction(objectID)
	if !ok {
		return 0
	}
	return e.run(objectID, ev, oi.MatchingRules(ev))
}

// TriggerKey evaluates a key event, keeping only rules whose key binding
// equals key (case-sensitive) or that have no binding.
func (e *Engine) TriggerKey(objectID string, ev EventType, key string) int {
	oi, ok := e.store.Interaction(objectID)
	if !ok {
		return 0
	}
	return e.run(objectID, ev, oi.MatchingKeyRules(ev, key))
}

func (e *Engine) run(objectID string, ev EventType, rules []InteractionRule) int {
	logger := e.log()
	if len(rules) > 0 {
		logger.Debug("interaction event matched",
			"object_id", objectID,
			"event", string(ev),
			"rules", len(rules),
		)
	}
	for _, rule := range rules {
		for _, action := range rule.Actions {
			if action.DelayMS > 0 {
				e.schedule(objectID, rule.ID, action)
				continue
			}
			e.execute(objectID, rule.ID, action)
		}
	}
	return len(rules)
}

// ─── Execution ──────────────────────────────────────────────────────

func (e *Engine) execute(sourceID, ruleID string, a ActionConfig) {
	defer func() {
		if r := recover(); r != nil {
			e.log().Error("interaction action panicked",
				"object_id", sourceID,
				"rule_id", ruleID,
				"action", string(a.Type),
				"panic", fmt.Sprint(r),
			)
		}
	}()

	target := a.TargetObject(sourceID)
	rec := ActionRecord{
		SourceObjectID: sourceID,
		TargetObjectID: target,
		RuleID:         ruleID,
		ActionID:       a.ID,
		Type:           a.Type,
		DelayMS:        a.DelayMS,
	}

	switch a.Type {
	case ActionSetState:
		if a.TargetStateID == nil || *a.TargetStateID == "" {
			return
		}
		rec.TargetStateID = *a.TargetStateID
		e.store.SetObjectCurrentState(target, *a.TargetStateID)

	case ActionToggleState:
		oi, ok := e.store.Interaction(target)
		if !ok {
			return
		}
		next, ok := oi.NextStateID()
		if !ok {
			return
		}
		rec.TargetStateID = next
		e.store.SetObjectCurrentState(target, next)

	case ActionResetScene:
		rec.TargetStateID = DefaultStateID
		for _, id := range e.store.ObjectIDs() {
			e.store.SetObjectCurrentState(id, DefaultStateID)
		}

	case ActionPlayAnimation:
		e.animationHook().PlayAnimation(target, a)

	case ActionStopAnimation:
		e.animationHook().StopAnimation(target, a)

	default:
		e.log().Warn("unknown interaction action", "action", string(a.Type))
		return
	}

	rec.ExecutedAt = time.Now().UTC()
	e.log().Debug("interaction action executed",
		"object_id", sourceID,
		"target_id", target,
		"rule_id", ruleID,
		"action", string(a.Type),
	)
	for _, r := range e.snapshotRecorders() {
		r.RecordAction(rec)
	}
}

// ─── Delayed actions ────────────────────────────────────────────────

func (e *Engine) schedule(sourceID, ruleID string, a ActionConfig) uint64 {
	delay := time.Duration(a.DelayMS) * time.Millisecond

	e.mu.Lock()
	e.nextToken++
	token := e.nextToken
	p := &pendingAction{
		info: PendingAction{
			Token:          token,
			SourceObjectID: sourceID,
			TargetObjectID: a.TargetObject(sourceID),
			RuleID:         ruleID,
			Type:           a.Type,
			DueAt:          time.Now().UTC().Add(delay),
		},
		action: a.Clone(),
	}
	e.pending[token] = p
	// Timer is set under the lock so cancelWhere never sees an entry without it.
	p.timer = e.clock.AfterFunc(delay, func() { e.fire(token) })
	logger := e.logger
	e.mu.Unlock()

	logger.Debug("interaction action scheduled",
		"object_id", sourceID,
		"rule_id", ruleID,
		"action", string(a.Type),
		"delay_ms", a.DelayMS,
		"token", token,
	)
	return token
}

func (e *Engine) fire(token uint64) {
	e.mu.Lock()
	p, ok := e.pending[token]
	if ok {
		delete(e.pending, token)
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	e.execute(p.info.SourceObjectID, p.info.RuleID, p.action)
}

// Pending returns the number of scheduled actions that have not run.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// PendingActions lists scheduled actions ordered by token.
func (e *Engine) PendingActions() []PendingAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]PendingAction, 0, len(e.pending))
	for _, p := range e.pending {
		out = append(out, p.info)
	}
	slices.SortFunc(out, func(a, b PendingAction) int { return cmp.Compare(a.Token, b.Token) })
	return out
}

// Cancel stops one scheduled action. It returns false if the token is unknown.
func (e *Engine) Cancel(token uint64) bool {
	return e.cancelWhere(func(p PendingAction) bool { return p.Token == token }) > 0
}

// CancelObject stops every scheduled action sourced from or targeting objectID.
func (e *Engine) CancelObject(objectID string) int {
	return e.cancelWhere(func(p PendingAction) bool {
		return p.SourceObjectID == objectID || p.TargetObjectID == objectID
	})
}

// CancelRule stops every scheduled action created by the given rule.
func (e *Engine) CancelRule(objectID, ruleID string) int {
	return e.cancelWhere(func(p PendingAction) bool {
		return p.SourceObjectID == objectID && p.RuleID == ruleID
	})
}

// CancelAll stops every scheduled action.
func (e *Engine) CancelAll() int {
	return e.cancelWhere(func(PendingAction) bool { return true })
}

func (e *Engine) cancelWhere(match func(PendingAction) bool) int {
	e.mu.Lock()
	var stopped []*pendingAction
	for tok, p := range e.pending {
		if match(p.info) {
			delete(e.pending, tok)
			stopped = append(stopped, p)
		}
	}
	logger := e.logger
	e.mu.Unlock()

	for _, p := range stopped {
		if p.timer != nil {
			p.timer.Stop()
		}
		logger.Debug("interaction action cancelled",
			"object_id", p.info.SourceObjectID,
			"rule_id", p.info.RuleID,
			"token", p.info.Token,
		)
	}
	return len(stopped)
}

// ─── Helpers ────────────────────────────────────────────────────────

func (e *Engine) log() Logger {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.logger
}

func (e *Engine) animationHook() AnimationHook {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hook
}

func (e *Engine) snapshotRecorders() []Recorder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Recorder(nil), e.recorders...)
}

type noopHook struct{}

func (noopHook) PlayAnimation(string, ActionConfig) {}
func (noopHook) StopAnimation(string, ActionConfig) {}
