package influxdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/scenecraft-core/internal/infrastructure/config"
	"github.com/nerrad567/scenecraft-core/internal/interaction"
)

// fakeWriter records points in place of the batching write API.
type fakeWriter struct {
	mu      sync.Mutex
	points  []*write.Point
	flushes int
}

func (w *fakeWriter) WritePoint(p *write.Point) {
	w.mu.Lock()
	w.points = append(w.points, p)
	w.mu.Unlock()
}

func (w *fakeWriter) Flush() {
	w.mu.Lock()
	w.flushes++
	w.mu.Unlock()
}

func fakeClient(t *testing.T) (*Client, *fakeWriter) {
	t.Helper()
	w := &fakeWriter{}
	return &Client{writer: w, connected: true}, w
}

func tagMap(p *write.Point) map[string]string {
	out := make(map[string]string)
	for _, tag := range p.TagList() {
		out[tag.Key] = tag.Value
	}
	return out
}

func fieldMap(p *write.Point) map[string]any {
	out := make(map[string]any)
	for _, f := range p.FieldList() {
		out[f.Key] = f.Value
	}
	return out
}

// fakeServer answers /ping and /api/v2/write like an InfluxDB 2 server and
// keeps the line-protocol bodies it receives.
type fakeServer struct {
	*httptest.Server
	mu     sync.Mutex
	writes []string
}

func newFakeServer(t *testing.T, healthy bool) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ping"):
			if !healthy {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case strings.HasSuffix(r.URL.Path, "/api/v2/write"):
			body, _ := io.ReadAll(r.Body) //nolint:errcheck // Test server
			fs.mu.Lock()
			fs.writes = append(fs.writes, string(body))
			fs.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) body() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return strings.Join(fs.writes, "\n")
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "test-token",
		Org:           "scenecraft",
		Bucket:        "scenecraft",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

// =============================================================================
// Connection
// =============================================================================

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig("http://localhost:8086")
	cfg.Enabled = false

	client, err := Connect(cfg)
	if !errors.Is(err, ErrDisabled) || client != nil {
		t.Errorf("Connect() = %v, %v; want nil, ErrDisabled", client, err)
	}
}

func TestConnect_Unhealthy(t *testing.T) {
	srv := newFakeServer(t, false)

	_, err := Connect(testConfig(srv.URL))
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestConnect_WritesReachServer(t *testing.T) {
	srv := newFakeServer(t, true)

	cfg := testConfig(srv.URL)
	cfg.BatchSize = 0 // defaults apply
	cfg.FlushInterval = -1

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	rec := NewActionRecorder(client)
	rec.RecordAction(interaction.ActionRecord{
		SourceObjectID: "a",
		TargetObjectID: "b",
		RuleID:         "r1",
		ActionID:       "x1",
		Type:           interaction.ActionToggleState,
		ExecutedAt:     time.Unix(1700000000, 0),
	})
	client.Flush()

	deadline := time.Now().Add(2 * time.Second)
	for srv.body() == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	body := srv.body()
	if !strings.Contains(body, MeasurementActions) || !strings.Contains(body, "action_type=toggleState") {
		t.Errorf("server received %q", body)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() after Close = %v, want ErrNotConnected", err)
	}
}

func TestClose_Nil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client = %v", err)
	}
}

func TestWriteErrorsAreWrapped(t *testing.T) {
	c, _ := fakeClient(t)
	got := make(chan error, 1)
	c.SetOnError(func(err error) { got <- err })

	ch := make(chan error, 1)
	ch <- errors.New("bucket not found")
	close(ch)
	c.handleWriteErrors(ch)

	if err := <-got; !errors.Is(err, ErrWriteFailed) {
		t.Errorf("onError got %v, want ErrWriteFailed", err)
	}
}

// =============================================================================
// Writes
// =============================================================================

func TestRecordAction(t *testing.T) {
	c, w := fakeClient(t)
	rec := NewActionRecorder(c)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rec.RecordAction(interaction.ActionRecord{
		SourceObjectID: "a",
		TargetObjectID: "a",
		RuleID:         "r1",
		ActionID:       "x1",
		Type:           interaction.ActionSetState,
		TargetStateID:  "on",
		DelayMS:        250,
		ExecutedAt:     at,
	})

	if len(w.points) != 1 {
		t.Fatalf("points = %d, want 1", len(w.points))
	}
	p := w.points[0]
	if p.Name() != MeasurementActions || !p.Time().Equal(at) {
		t.Errorf("point %s at %v", p.Name(), p.Time())
	}
	tags := tagMap(p)
	if tags["action_type"] != "setState" || tags["source_object_id"] != "a" || tags["rule_id"] != "r1" {
		t.Errorf("tags = %v", tags)
	}
	fields := fieldMap(p)
	if fields["target_state_id"] != "on" || fields["cross"] != false {
		t.Errorf("fields = %v", fields)
	}
}

func TestRecordAction_DefaultsTimestamp(t *testing.T) {
	c, w := fakeClient(t)
	rec := NewActionRecorder(c)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	rec.RecordAction(interaction.ActionRecord{Type: interaction.ActionResetScene})

	p := w.points[0]
	if !p.Time().Equal(fixed) {
		t.Errorf("Time() = %v, want %v", p.Time(), fixed)
	}
	if _, ok := fieldMap(p)["target_state_id"]; ok {
		t.Error("empty target state must not be written")
	}
}

func TestRecordChange(t *testing.T) {
	c, w := fakeClient(t)
	NewActionRecorder(c).RecordChange("add_object", []string{"objects", "selection"})

	p := w.points[0]
	if p.Name() != MeasurementChanges || tagMap(p)["op"] != "add_object" {
		t.Errorf("point = %s %v", p.Name(), tagMap(p))
	}
	if fieldMap(p)["slices"] != int64(2) {
		t.Errorf("slices = %#v", fieldMap(p)["slices"])
	}
}

func TestWritesDroppedWhenDisconnected(t *testing.T) {
	c, w := fakeClient(t)
	c.Close() //nolint:errcheck // Always nil

	c.WritePoint("m", nil, map[string]any{"v": 1}, time.Now())
	c.Flush()

	if len(w.points) != 0 {
		t.Error("points written after Close")
	}
	if w.flushes != 1 {
		t.Errorf("flushes = %d, want 1 (from Close only)", w.flushes)
	}
}

