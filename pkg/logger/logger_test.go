package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) LogEntry {
	t.Helper()
	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelDebug})

	log.Info("payment recorded",
		AdmissionNo("SL20250001"),
		Amount("500.00"),
		PaymentMode("Cash"),
	)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "payment recorded", entry.Message)
	assert.Equal(t, "SL20250001", entry.Fields["admission_no"])
	assert.Equal(t, "500.00", entry.Fields["amount"])
	assert.Equal(t, "Cash", entry.Fields["payment_mode"])
	assert.NotEmpty(t, entry.Timestamp)
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelWarn})

	log.Debug("dropped")
	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, Level: LevelDebug}).With(Component("ledger"))

	log.Error("create failed", Err(errors.New("boom")))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "ledger", entry.Fields["component"])
	assert.Equal(t, "boom", entry.Fields["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}
