package influxdb

import (
	"time"

	"github.com/nerrad567/scenecraft-core/internal/interaction"
)

// Measurement names.
const (
	MeasurementActions = "interaction_actions"
	MeasurementChanges = "scene_changes"
)

// ActionRecorder writes executed interaction actions and scene changes as
// points. It implements interaction.Recorder.
type ActionRecorder struct {
	client *Client
	now    func() time.Time
}

// NewActionRecorder creates a recorder over client.
func NewActionRecorder(client *Client) *ActionRecorder {
	return &ActionRecorder{client: client, now: time.Now}
}

// RecordAction writes one point per executed action, tagged by action type
// and the objects involved.
func (r *ActionRecorder) RecordAction(rec interaction.ActionRecord) {
	ts := rec.ExecutedAt
	if ts.IsZero() {
		ts = r.now()
	}

	tags := map[string]string{
		"action_type":      string(rec.Type),
		"source_object_id": rec.SourceObjectID,
		"target_object_id": rec.TargetObjectID,
		"rule_id":          rec.RuleID,
	}
	fields := map[string]any{
		"delay_ms":  rec.DelayMS,
		"action_id": rec.ActionID,
		"cross":     rec.SourceObjectID != rec.TargetObjectID,
	}
	if rec.TargetStateID != "" {
		fields["target_state_id"] = rec.TargetStateID
	}
	r.client.WritePoint(MeasurementActions, tags, fields, ts)
}

// RecordChange writes one point per committed store mutation.
func (r *ActionRecorder) RecordChange(op string, slices []string) {
	r.client.WritePoint(MeasurementChanges,
		map[string]string{"op": op},
		map[string]any{"slices": len(slices)},
		r.now(),
	)
}

var _ interaction.Recorder = (*ActionRecorder)(nil)
