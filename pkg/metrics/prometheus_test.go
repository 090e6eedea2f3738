package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordFetch("fred", 0.2, true)
	r.RecordFetch("quote", 0.4, false)
	r.RecordFetch("quote", 0.1, false)
	r.RecordError("value_not_found")
	r.RecordIndicator(52000, 27000, 192.59)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchesTotal.WithLabelValues("fred", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetchesTotal.WithLabelValues("quote", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("value_not_found")))
	assert.Equal(t, 192.59, testutil.ToFloat64(r.ratio))
	assert.Equal(t, 52000.0, testutil.ToFloat64(r.indexValue))
}
