package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	var s struct {
		D Duration `json:"d"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"d":"30m"}`), &s))
	require.Equal(t, 30*time.Minute, s.D.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"d":3000000000}`), &s))
	require.Equal(t, 3*time.Second, s.D.Duration)

	require.Error(t, json.Unmarshal([]byte(`{"d":"nonsense"}`), &s))
	require.Error(t, json.Unmarshal([]byte(`{"d":true}`), &s))
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration{Duration: 90 * time.Second}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `"1m30s"`, string(b))
}
