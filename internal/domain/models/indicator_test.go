package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuationJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		V Valuation `json:"v"`
	}{ExtremelyOvervalued})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"extremely_overvalued"}`, string(b))

	var back struct {
		V Valuation `json:"v"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, ExtremelyOvervalued, back.V)
}

func TestValuationUnknown(t *testing.T) {
	var v Valuation
	assert.Error(t, v.UnmarshalText([]byte("cheap")))
	assert.Equal(t, "valuation(0)", v.String())
}

func TestFormattedTimestamp(t *testing.T) {
	r := Report{Timestamp: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)}
	assert.Equal(t, "2024-05-06 07:08:09", r.FormattedTimestamp())
}
