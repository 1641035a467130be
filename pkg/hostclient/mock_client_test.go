package hostclient

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdt "github.com/goliatone/go-mdt/components/mdt"
)

func TestMockClientServesDefaultFixtures(t *testing.T) {
	client := NewMockClient(DefaultMockData())
	ctx := context.Background()

	dash, err := client.FetchData(ctx, "dashboard", "")
	require.NoError(t, err)
	stats, err := dash.Stats()
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.ActiveCalls)
	assert.Len(t, stats.CrimeStats.Labels, 6)

	citizens, err := client.FetchData(ctx, "citizens", "")
	require.NoError(t, err)
	people, err := citizens.Citizens()
	require.NoError(t, err)
	assert.Len(t, people, 3)
	assert.Equal(t, "Suspended", people[2].Status)

	unknown, err := client.FetchData(ctx, "reports", "")
	require.NoError(t, err)
	assert.True(t, unknown.Empty())
}

func TestMockClientFixturesAreCopied(t *testing.T) {
	client := NewMockClient(MockData{Fixtures: map[string]json.RawMessage{}})
	raw := json.RawMessage(`[{"plate": "AAA111"}]`)
	client.SetFixture("vehicles", raw)
	raw[3] = 'X'

	records, err := client.FetchData(context.Background(), "vehicles", "")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"plate": "AAA111"}]`, string(records.Raw))
}

func TestMockClientLatencyHonoursContext(t *testing.T) {
	client := NewMockClient(MockData{Latency: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchData(ctx, "dashboard", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockClientCountsCloses(t *testing.T) {
	client := NewMockClient(DefaultMockData())
	require.NoError(t, client.Close(context.Background()))
	require.NoError(t, client.Close(context.Background()))
	assert.Equal(t, 2, client.Closes())
}

func TestMockClientAddIncident(t *testing.T) {
	client := NewMockClient(DefaultMockData())
	ctx := context.Background()

	require.NoError(t, client.AddIncident(ctx, mdt.Incident{ID: "new-1", Type: "Burglary", Status: "Open"}))

	records, err := client.FetchData(ctx, "incidents", "")
	require.NoError(t, err)
	incidents, err := records.Incidents()
	require.NoError(t, err)
	require.Len(t, incidents, 4)
	assert.Equal(t, mdt.FlexString("new-1"), incidents[0].ID)
	assert.Equal(t, mdt.FlexString("1"), incidents[1].ID)
}
