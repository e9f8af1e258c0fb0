package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-metrics-etl/internal/domain"
	"github.com/couchcryptid/covid-metrics-etl/internal/pipeline"
)

func TestSerializeReport(t *testing.T) {
	finished := time.Date(2021, 6, 15, 6, 0, 42, 0, time.UTC)
	report := pipeline.Report{
		RunID:         "run-1",
		StartedAt:     finished.Add(-40 * time.Second),
		FinishedAt:    finished,
		Status:        domain.StatusClean,
		RowsFetched:   500,
		RowsProcessed: 240,
		Outcomes: []domain.Outcome{
			{Check: "unique_keys", Passed: true, Severity: domain.SeverityBlocking},
		},
	}

	msg, err := serializeReport(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("run-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"status":"advisory-clean"`)
	assert.Contains(t, string(msg.Value), `"rows_processed":240`)
	assert.Contains(t, string(msg.Value), `"check":"unique_keys"`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "status", msg.Headers[0].Key)
	assert.Equal(t, []byte("advisory-clean"), msg.Headers[0].Value)
	assert.Equal(t, "finished_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(finished.Format(time.RFC3339)), msg.Headers[1].Value)
}
