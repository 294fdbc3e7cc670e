package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-03")
	require.NoError(t, err)
	assert.Equal(t, 2025, m.Year)
	assert.Equal(t, time.March, m.Mon)
	assert.Equal(t, "2025-03", m.String())

	for _, bad := range []string{"", "2025", "2025-13", "2025-00", "25-03", "2025-3", "2025/03"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestMonthNext(t *testing.T) {
	assert.Equal(t, MustMonth("2025-01"), MustMonth("2024-12").Next())
	assert.Equal(t, MustMonth("2024-07"), MustMonth("2024-06").Next())
}

func TestMonthContains(t *testing.T) {
	m := MustMonth("2024-02")
	assert.True(t, m.Contains(time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)))
}

func TestMonthJSON(t *testing.T) {
	m := MustMonth("2025-11")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"2025-11"`, string(data))

	var parsed Month
	require.NoError(t, json.Unmarshal([]byte(`"2025-11"`), &parsed))
	assert.Equal(t, m, parsed)

	var zero Month
	require.NoError(t, json.Unmarshal([]byte(`null`), &zero))
	assert.True(t, zero.IsZero())
}

func TestMonthScan(t *testing.T) {
	var m Month
	require.NoError(t, m.Scan("2023-09"))
	assert.Equal(t, MustMonth("2023-09"), m)

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}

func TestMonthBefore(t *testing.T) {
	assert.True(t, MustMonth("2024-12").Before(MustMonth("2025-01")))
	assert.False(t, MustMonth("2025-01").Before(MustMonth("2025-01")))
	assert.False(t, MustMonth("2025-02").Before(MustMonth("2025-01")))
}
