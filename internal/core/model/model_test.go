package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(value int64) *int64 { return &value }
func strPtr(value string) *string { return &value }
func intPtr(value int) *int       { return &value }

func TestTimeEntryRoundTrip(t *testing.T) {
	entry := TimeEntry{
		ID:          3001,
		WorkspaceID: 42,
		ProjectID:   int64Ptr(7),
		TaskID:      int64Ptr(9),
		Billable:    true,
		Start:       "2026-01-11T09:50:06+00:00",
		Stop:        strPtr("2026-01-11T10:50:06+00:00"),
		Duration:    3600,
		Description: strPtr("write report"),
		Tags:        []string{"deep-work", "writing"},
		TagIDs:      []int64{1, 2},
		ModifiedAt:  "2026-01-11T10:50:07+00:00",
		UserID:      1001,
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded TimeEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry, decoded)
}

func TestTimeEntryRoundTripRunning(t *testing.T) {
	entry := TimeEntry{
		ID:          3002,
		WorkspaceID: 42,
		Start:       "2026-01-11T09:50:06Z",
		Duration:    -1,
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded TimeEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry, decoded)
	assert.True(t, decoded.IsRunning())
	assert.Nil(t, decoded.ProjectID)
	assert.Nil(t, decoded.Stop)
	assert.Nil(t, decoded.Description)
}

func TestTimeEntryStartTime(t *testing.T) {
	entry := TimeEntry{Start: "2026-01-11T09:50:06+00:00"}
	parsed, ok := entry.StartTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 11, 9, 50, 6, 0, time.UTC), parsed.UTC())

	_, ok = TimeEntry{Start: "yesterday"}.StartTime()
	assert.False(t, ok)

	_, ok = TimeEntry{}.StartTime()
	assert.False(t, ok)
}

func TestRateLimitInfoIsLow(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		remaining *int
		want      bool
	}{
		{name: "unknown remaining", limit: 30, remaining: nil, want: false},
		{name: "exactly 30 percent", limit: 30, remaining: intPtr(9), want: true},
		{name: "just above 30 percent", limit: 30, remaining: intPtr(10), want: false},
		{name: "zero remaining", limit: 30, remaining: intPtr(0), want: true},
		{name: "zero limit falls back to default", limit: 0, remaining: intPtr(9), want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			info := RateLimitInfo{Limit: test.limit, Remaining: test.remaining}
			assert.Equal(t, test.want, info.IsLow())
		})
	}
}

func TestUserDecodeRelatedData(t *testing.T) {
	payload := `{
		"id": 1001,
		"email": "user@example.com",
		"fullname": "Test User",
		"timezone": "Europe/Moscow",
		"default_workspace_id": 42,
		"beginning_of_week": 1,
		"projects": [{"id": 7, "workspace_id": 42, "name": "Reports", "color": "#c9806b", "active": true}],
		"workspaces": [{"id": 42, "name": "Personal"}]
	}`

	var user User
	require.NoError(t, json.Unmarshal([]byte(payload), &user))
	assert.Equal(t, int64(1001), user.ID)
	require.Len(t, user.Projects, 1)
	assert.Equal(t, "Reports", user.Projects[0].Name)
	assert.True(t, user.Projects[0].Active)
	require.Len(t, user.Workspaces, 1)
	assert.Equal(t, int64(42), user.Workspaces[0].ID)
}
