package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/crytic/solsim/logging/colors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeLines parses every JSON line written to buf.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		event := make(map[string]any)
		require.NoError(t, json.Unmarshal([]byte(line), &event), line)
		events = append(events, event)
	}
	return events
}

// TestAddAndRemoveWriter ensures writers can be added once and removed again.
func TestAddAndRemoveWriter(t *testing.T) {
	logger := NewLogger(zerolog.InfoLevel, false)

	var structured, unstructured bytes.Buffer
	logger.AddWriter(&structured, STRUCTURED)
	logger.AddWriter(&unstructured, UNSTRUCTURED)
	assert.Len(t, logger.writers, 2)

	// Duplicates are ignored
	logger.AddWriter(&structured, STRUCTURED)
	assert.Len(t, logger.writers, 2)

	logger.Info("first")
	assert.Contains(t, structured.String(), `"message":"first"`)
	assert.Contains(t, unstructured.String(), "first")
	assert.NotContains(t, unstructured.String(), "\x1b[")

	logger.RemoveWriter(&structured)
	logger.RemoveWriter(&structured)
	assert.Len(t, logger.writers, 1)

	logger.Info("second")
	assert.NotContains(t, structured.String(), "second")
	assert.Contains(t, unstructured.String(), "second")
}

// TestStructuredOutput checks the fields attached to structured events.
func TestStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.InfoLevel, false, &buf).NewSubLogger("module", RUNNER_SERVICE)

	logger.Error("Deploying ", colors.Bold, "Contract", colors.Reset, " failed", errors.New("out of gas"),
		StructuredLogInfo{"step": 2})

	events := decodeLines(t, &buf)
	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, "error", event["level"])
	assert.Equal(t, "runner", event["module"])
	assert.Equal(t, "Deploying Contract failed", event["message"])
	assert.Equal(t, "out of gas", event["error"])
	assert.Equal(t, map[string]any{"step": float64(2)}, event["info"])
	assert.Contains(t, event, "time")
}

// TestLevelFiltering ensures events below the logger's level are dropped, including after SetLevel.
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(zerolog.WarnLevel, false, &buf)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	events := decodeLines(t, &buf)
	require.Len(t, events, 1)
	assert.Equal(t, "warn", events[0]["message"])

	buf.Reset()
	logger.SetLevel(zerolog.DebugLevel)
	assert.Equal(t, zerolog.DebugLevel, logger.Level())
	logger.Debug("debug")
	events = decodeLines(t, &buf)
	require.Len(t, events, 1)
	assert.Equal(t, "debug", events[0]["level"])
}

// TestSubLoggerIsolation ensures writers added to a sub-logger do not leak into its parent.
func TestSubLoggerIsolation(t *testing.T) {
	var parentBuf, childBuf bytes.Buffer
	parent := NewLogger(zerolog.InfoLevel, false, &parentBuf)
	child := parent.NewSubLogger("module", CHAIN_SERVICE)
	child.AddWriter(&childBuf, STRUCTURED)

	child.Info("from child")
	parent.Info("from parent")

	parentEvents := decodeLines(t, &parentBuf)
	require.Len(t, parentEvents, 2)
	assert.Equal(t, "chain", parentEvents[0]["module"])
	assert.NotContains(t, parentEvents[1], "module")

	childEvents := decodeLines(t, &childBuf)
	require.Len(t, childEvents, 1)
	assert.Equal(t, "from child", childEvents[0]["message"])
}

// TestBuildMsgs checks how message arguments are split and coloured.
func TestBuildMsgs(t *testing.T) {
	err := errors.New("boom")
	info := StructuredLogInfo{"key": "value"}

	console, plain, gotErr, gotInfo := buildMsgs("a", colors.Bold, "b", err, 3, info)
	assert.Equal(t, "ab3", plain)
	assert.Equal(t, "a"+colors.Bold("b")+colors.Bold(3), console)
	assert.Equal(t, err, gotErr)
	assert.Equal(t, info, gotInfo)

	console, plain, gotErr, gotInfo = buildMsgs()
	assert.Empty(t, console)
	assert.Empty(t, plain)
	assert.Nil(t, gotErr)
	assert.Nil(t, gotInfo)
}
