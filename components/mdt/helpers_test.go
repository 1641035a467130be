package mdt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-mdt/pkg/clock"
)

const (
	dashboardFixture = `{
		"activeCalls": 3, "openCases": 12, "arrestsToday": 5, "activeWarrants": 8,
		"crimeStats": {"labels": ["Jan","Feb","Mar","Apr","May","Jun"], "data": [12,19,3,5,2,3]},
		"responseTimes": {"labels": ["Week 1","Week 2","Week 3","Week 4"], "data": [4.2,3.8,4.5,3.9]}
	}`
	citizensFixture = `[
		{"citizenid": "ABC123", "firstname": "John", "lastname": "Smith", "birthdate": "1990-05-15", "license": "DL123456", "status": "Active"},
		{"citizenid": 42, "firstname": "Jane", "lastname": ""}
	]`
	vehiclesFixture  = `[{"plate": "ABC123", "model": "Adder", "owner": "John Smith", "status": "Valid", "insurance": "Active"}]`
	incidentsFixture = `[{"id": 1, "type": "Traffic Violation", "location": "Legion Square", "officer": "Officer Doe", "date": "2024-01-15", "status": "Open"}]`
)

type stubClient struct {
	mu        sync.Mutex
	responses map[string]RecordCollection
	errs      map[string]error
	gates     map[string]chan struct{}
	fetches   map[string]int
	closes    int
}

func newStubClient() *stubClient {
	c := &stubClient{
		responses: make(map[string]RecordCollection),
		errs:      make(map[string]error),
		gates:     make(map[string]chan struct{}),
		fetches:   make(map[string]int),
	}
	c.respond("dashboard", dashboardFixture)
	c.respond("citizens", citizensFixture)
	c.respond("vehicles", vehiclesFixture)
	c.respond("incidents", incidentsFixture)
	return c
}

func (c *stubClient) respond(domain, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[domain] = RecordCollection{Domain: domain, Raw: json.RawMessage(raw)}
	delete(c.errs, domain)
}

func (c *stubClient) fail(domain string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[domain] = err
}

func (c *stubClient) gate(domain string) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan struct{})
	c.gates[domain] = ch
	return ch
}

func (c *stubClient) FetchData(ctx context.Context, domain, query string) (RecordCollection, error) {
	c.mu.Lock()
	c.fetches[domain]++
	gate := c.gates[domain]
	resp := c.responses[domain]
	err := c.errs[domain]
	c.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return RecordCollection{}, ctx.Err()
		}
	}
	return resp, err
}

func (c *stubClient) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

func (c *stubClient) fetchCount(domain string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches[domain]
}

func (c *stubClient) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

type stubCharts struct {
	mu     sync.Mutex
	charts []*renderedChart
}

func (s *stubCharts) NewChart(spec ChartSpec) (Chart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chart := &renderedChart{id: fmt.Sprintf("chart-%d", len(s.charts)+1), spec: spec, html: "<div></div>"}
	s.charts = append(s.charts, chart)
	return chart, nil
}

func (s *stubCharts) all() []*renderedChart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*renderedChart(nil), s.charts...)
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTelemetry) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

type harness struct {
	ctrl      *Controller
	tree      *ViewTree
	clock     *clock.FakeClock
	client    *stubClient
	charts    *stubCharts
	telemetry *recordingTelemetry
}

func newHarness(t *testing.T, mutate func(*Options), treeOpts ...ViewTreeOption) *harness {
	t.Helper()
	h := &harness{
		tree:      NewViewTree(treeOpts...),
		clock:     clock.Fake(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)),
		client:    newStubClient(),
		charts:    &stubCharts{},
		telemetry: &recordingTelemetry{},
	}
	opts := Options{
		Client:    h.client,
		Surface:   h.tree,
		Charts:    h.charts,
		Clock:     h.clock,
		Telemetry: h.telemetry,
	}
	if mutate != nil {
		mutate(&opts)
	}
	h.ctrl = NewController(opts)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = h.ctrl.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.ctrl.Done()
	})
	return h
}

// initialized runs Init and waits for the dashboard load to be applied.
func (h *harness) initialized(t *testing.T) {
	t.Helper()
	require.NoError(t, h.ctrl.Init(context.Background()))
	h.waitFor(t, "mdt.fetch.applied", 1)
}

func (h *harness) waitFor(t *testing.T, event string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.telemetry.count(event) >= n
	}, time.Second, 5*time.Millisecond, "waiting for %s x%d", event, n)
}

// advance moves the fake clock and waits until the callbacks it posted ran.
func (h *harness) advance(t *testing.T, d time.Duration) {
	t.Helper()
	h.clock.Advance(d)
	h.state(t)
}

func (h *harness) state(t *testing.T) State {
	t.Helper()
	state, err := h.ctrl.Snapshot(context.Background())
	require.NoError(t, err)
	return state
}

func (h *harness) send(t *testing.T, raw string) error {
	t.Helper()
	env, err := ParseEnvelope([]byte(raw))
	require.NoError(t, err)
	return h.ctrl.HandleMessage(context.Background(), env)
}
