package telemetry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finops-llm-router/internal/llm"
)

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }

func TestSQLiteCollector_CaptureAndRecent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	c, err := NewSQLiteCollector(dbPath)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	evt := Event{
		Timestamp:     time.Now(),
		RequestID:     "req-1",
		Strategy:      "cost-first",
		Provider:      strp("openai"),
		Model:         strp("GPT-4o-mini"),
		Usage:         &llm.Usage{InputTokens: 10, OutputTokens: 20},
		CostEstimated: f64p(0.001),
		LatencyMS:     f64p(123.4),
	}
	require.NoError(t, c.Capture(ctx, evt))

	events, err := c.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "req-1", events[0].RequestID)
	require.NotNil(t, events[0].Usage)
	assert.Equal(t, int64(10), events[0].Usage.InputTokens)
	require.NotNil(t, events[0].Provider)
	assert.Equal(t, "openai", *events[0].Provider)
}

func TestSQLiteCollector_CapturesGuardrailViolationWithNulls(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	c, err := NewSQLiteCollector(dbPath)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	evt := Event{
		Timestamp:       time.Now(),
		RequestID:       "req-2",
		Strategy:        "N/A",
		GuardrailFailed: true,
		GuardrailReason: strp("forbidden token found: SSN"),
	}
	require.NoError(t, c.Capture(ctx, evt))

	events, err := c.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].GuardrailFailed)
	assert.Nil(t, events[0].Provider)
	assert.Nil(t, events[0].Usage)
	require.NotNil(t, events[0].GuardrailReason)
	assert.Equal(t, "forbidden token found: SSN", *events[0].GuardrailReason)
}

func TestSQLiteCollector_AppendOnlyOrdering(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	c, err := NewSQLiteCollector(dbPath)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Capture(ctx, Event{
			Timestamp: time.Now(),
			RequestID: string(rune('a' + i)),
			Strategy:  "cost-first",
			Provider:  strp("mock"),
			Model:     strp("mock-model"),
		}))
	}

	events, err := c.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "a", events[0].RequestID)
	assert.Equal(t, "c", events[2].RequestID)
}
