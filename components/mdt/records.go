package mdt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RecordCollection is the raw payload returned for a domain selector. The
// shapes are owned by the host; decoding only checks that they exist.
type RecordCollection struct {
	Domain string          `json:"type"`
	Raw    json.RawMessage `json:"data"`
}

// Empty reports whether the host returned nothing (or null).
func (rc RecordCollection) Empty() bool {
	trimmed := bytes.TrimSpace(rc.Raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Stats decodes a dashboard payload. A nil result means the host sent nothing.
func (rc RecordCollection) Stats() (*DashboardStats, error) {
	if rc.Empty() {
		return nil, nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(rc.Raw, &stats); err != nil {
		return nil, fmt.Errorf("mdt: decode %s stats: %w", rc.Domain, err)
	}
	return &stats, nil
}

// Citizens decodes a citizen record list.
func (rc RecordCollection) Citizens() ([]Citizen, error) {
	return decodeList[Citizen](rc)
}

// Vehicles decodes a vehicle record list.
func (rc RecordCollection) Vehicles() ([]Vehicle, error) {
	return decodeList[Vehicle](rc)
}

// Incidents decodes an incident record list.
func (rc RecordCollection) Incidents() ([]Incident, error) {
	return decodeList[Incident](rc)
}

// Rows decodes any record list into generic rows for extension pages.
func (rc RecordCollection) Rows() ([]map[string]any, error) {
	return decodeList[map[string]any](rc)
}

func decodeList[T any](rc RecordCollection) ([]T, error) {
	if rc.Empty() {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(rc.Raw, &out); err != nil {
		return nil, fmt.Errorf("mdt: decode %s records: %w", rc.Domain, err)
	}
	return out, nil
}

// FlexString accepts JSON strings and numbers; hosts disagree on id types.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("mdt: expected string or number, got %s", data)
	}
	*s = FlexString(num.String())
	return nil
}

// Citizen is a person record.
type Citizen struct {
	CitizenID FlexString `json:"citizenid"`
	FirstName string     `json:"firstname"`
	LastName  string     `json:"lastname"`
	BirthDate string     `json:"birthdate"`
	License   string     `json:"license"`
	Status    string     `json:"status"`
}

// Vehicle is a registered vehicle record.
type Vehicle struct {
	Plate     string `json:"plate"`
	Model     string `json:"model"`
	Owner     string `json:"owner"`
	Status    string `json:"status"`
	Insurance string `json:"insurance"`
}

// Incident is an incident report summary.
type Incident struct {
	ID       FlexString `json:"id"`
	Type     string     `json:"type"`
	Location string     `json:"location"`
	Officer  string     `json:"officer"`
	Date     string     `json:"date"`
	Status   string     `json:"status"`
}

// Series is a labelled numeric series consumed by the chart renderer.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// DashboardStats is the dashboard summary payload.
type DashboardStats struct {
	ActiveCalls    int    `json:"activeCalls"`
	OpenCases      int    `json:"openCases"`
	ArrestsToday   int    `json:"arrestsToday"`
	ActiveWarrants int    `json:"activeWarrants"`
	CrimeStats     Series `json:"crimeStats"`
	ResponseTimes  Series `json:"responseTimes"`
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
