package hostclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

// MockData seeds deterministic host responses for tests or local demos.
type MockData struct {
	Fixtures map[string]json.RawMessage
	Latency  time.Duration
}

// DefaultMockData returns the demo records used by `mdt serve --mock`.
func DefaultMockData() MockData {
	return MockData{Fixtures: map[string]json.RawMessage{
		"dashboard": json.RawMessage(`{
			"activeCalls": 3, "openCases": 12, "arrestsToday": 5, "activeWarrants": 8,
			"crimeStats": {"labels": ["Jan", "Feb", "Mar", "Apr", "May", "Jun"], "data": [12, 19, 3, 5, 2, 3]},
			"responseTimes": {"labels": ["Week 1", "Week 2", "Week 3", "Week 4"], "data": [4.2, 3.8, 4.5, 3.9]}
		}`),
		"citizens": json.RawMessage(`[
			{"citizenid": "1", "firstname": "John", "lastname": "Smith", "birthdate": "1990-05-15", "license": "D1234567", "status": "Active"},
			{"citizenid": "2", "firstname": "Jane", "lastname": "Doe", "birthdate": "1985-12-03", "license": "D2345678", "status": "Active"},
			{"citizenid": "3", "firstname": "Bob", "lastname": "Johnson", "birthdate": "1992-08-22", "license": "D3456789", "status": "Suspended"}
		]`),
		"vehicles": json.RawMessage(`[
			{"plate": "ABC123", "model": "Sedan", "owner": "John Smith", "status": "Valid", "insurance": "Active"},
			{"plate": "XYZ789", "model": "SUV", "owner": "Jane Doe", "status": "Valid", "insurance": "Active"},
			{"plate": "DEF456", "model": "Truck", "owner": "Bob Johnson", "status": "Expired", "insurance": "Expired"}
		]`),
		"incidents": json.RawMessage(`[
			{"id": 1, "type": "Traffic Violation", "location": "Main St", "officer": "John Doe", "date": "2024-01-15", "status": "Open"},
			{"id": 2, "type": "Theft", "location": "Downtown", "officer": "Jane Smith", "date": "2024-01-14", "status": "Closed"},
			{"id": 3, "type": "Assault", "location": "Park Ave", "officer": "Bob Wilson", "date": "2024-01-13", "status": "Pending"}
		]`),
	}}
}

// MockClient implements mdt.HostClient using in-memory fixtures.
type MockClient struct {
	data   MockData
	mu     sync.RWMutex
	closes int
}

// NewMockClient builds a mock host client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	fixtures := make(map[string]json.RawMessage, len(data.Fixtures))
	for domain, raw := range data.Fixtures {
		fixtures[domain] = cloneRaw(raw)
	}
	data.Fixtures = fixtures
	return &MockClient{data: data}
}

// SetFixture replaces the payload served for domain.
func (c *MockClient) SetFixture(domain string, raw json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Fixtures[domain] = cloneRaw(raw)
}

// FetchData returns the fixture for domain ignoring the query. Unknown
// domains resolve to an empty collection, as the host does.
func (c *MockClient) FetchData(ctx context.Context, domain, _ string) (mdt.RecordCollection, error) {
	c.mu.RLock()
	latency := c.data.Latency
	raw, ok := c.data.Fixtures[domain]
	c.mu.RUnlock()

	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return mdt.RecordCollection{}, fmt.Errorf("hostclient: fetch %s: %w", domain, ctx.Err())
		case <-timer.C:
		}
	}
	if !ok {
		return mdt.RecordCollection{Domain: domain}, nil
	}
	return mdt.RecordCollection{Domain: domain, Raw: cloneRaw(raw)}, nil
}

// AddIncident prepends incident to the incidents fixture so demo sessions
// see terminal-created reports on the next load.
func (c *MockClient) AddIncident(_ context.Context, incident mdt.Incident) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var incidents []mdt.Incident
	if raw, ok := c.data.Fixtures["incidents"]; ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &incidents); err != nil {
			return fmt.Errorf("hostclient: decode incidents fixture: %w", err)
		}
	}
	incidents = append([]mdt.Incident{incident}, incidents...)
	raw, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("hostclient: encode incidents fixture: %w", err)
	}
	c.data.Fixtures["incidents"] = raw
	return nil
}

// Close records the close request.
func (c *MockClient) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

// Closes reports how many close requests were received.
func (c *MockClient) Closes() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closes
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), raw...)
}

var _ mdt.HostClient = (*MockClient)(nil)
