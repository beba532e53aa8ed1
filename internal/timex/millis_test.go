package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMillis_RoundTrip(t *testing.T) {
	m := Millis(1700000000000)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", string(data))

	var back Millis
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}

func TestMillis_UnmarshalVariants(t *testing.T) {
	iso := time.UnixMilli(1700000000000).UTC().Format(time.RFC3339Nano)

	tests := []struct {
		name string
		in   string
		want Millis
	}{
		{"number", `1700000000000`, 1700000000000},
		{"numeric string", `"1700000000000"`, 1700000000000},
		{"iso string", `"` + iso + `"`, 1700000000000},
		{"date only", `"2023-11-14"`, Millis(time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC).UnixMilli())},
		{"null", `null`, 0},
		{"fractional", `1700000000000.0`, 1700000000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Millis
			require.NoError(t, json.Unmarshal([]byte(tt.in), &m))
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestMillis_UnmarshalGarbage(t *testing.T) {
	var m Millis
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &m))
}

func TestDuration_Unmarshal(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"30s"`), &d))
	assert.Equal(t, 30*time.Second, d.Duration)

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Duration)

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}
