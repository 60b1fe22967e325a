package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerInterface tests the TestLogger implementation of Logger
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationDecode)
	testLogger.Warn("warning message", ErrorCodeKey, ErrorUnresolvedFeature)
	testLogger.Error("error message", "error", fmt.Errorf("test error"))

	require.NotEmpty(t, buffer.String())

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.True(t, testLogger.ContainsMessage(msg), "missing %q", msg)
	}

	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0)) // JSON numbers decode as float64
	assert.True(t, testLogger.ContainsField("error", "test error"))
}

// TestLoggerWith tests the With method for context-aware logging
func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "Ensemble",
		ComponentKey, "boosting",
	)
	contextLogger.Info("contextual message", TreesKey, 3)

	assert.True(t, testLogger.ContainsField(ModelNameKey, "Ensemble"))
	assert.True(t, testLogger.ContainsField(ComponentKey, "boosting"))
	assert.True(t, testLogger.ContainsField(TreesKey, 3.0))
}

// TestLoggerEnabled tests level filtering of the TestLogger
func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	assert.False(t, testLogger.ContainsMessage("this should not appear"))
	assert.True(t, testLogger.ContainsMessage("this should appear"))
}

func TestEntriesWithMessage(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)
	testLogger.Debug("tree decoded", TreeDepthKey, 2)
	testLogger.Debug("tree decoded", TreeDepthKey, 5)
	testLogger.Debug("ensemble decoded", TreesKey, 2)

	entries := testLogger.EntriesWithMessage("tree decoded")
	require.Len(t, entries, 2)
	assert.Equal(t, 5.0, entries[1][TreeDepthKey])
}

func TestLoggerClear(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)
	child := testLogger.With(ComponentKey, "boosting")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				child.Debug("scored", SamplesKey, j)
				if j%10 == 0 {
					testLogger.Clear()
				}
			}
		}()
	}
	wg.Wait()

	// Every surviving line still decodes.
	_, err := testLogger.GetLogEntries()
	require.NoError(t, err)

	testLogger.Clear()
	assert.Empty(t, buffer.String())
	child.Info("after clear")
	assert.True(t, testLogger.ContainsMessage("after clear"))
}

// TestZerologLogger tests the zerolog backend
func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.With(ComponentKey, "boosting").Info("scored", SamplesKey, 10)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "scored", entry["message"])
	assert.Equal(t, "boosting", entry[ComponentKey])
	assert.Equal(t, 10.0, entry[SamplesKey])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

// TestZerologLoggerErrorStack tests that cockroachdb stack traces are attached
func TestZerologLoggerErrorStack(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Error("decode failed", errors.New("boom"), OperationKey, OperationDecode)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, OperationDecode, entry[OperationKey])
	assert.Contains(t, entry, StacktraceAttrKey)
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProvider(&buf, LevelError)

	provider.GetLogger().Info("dropped")
	assert.Empty(t, buf.String())

	provider.SetLevel(LevelDebug)
	provider.GetLoggerWithName("codec").Debug("kept")
	assert.Contains(t, buf.String(), `"ml.component":"codec"`)
}

func TestToLogLevel(t *testing.T) {
	for input, want := range map[string]Level{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
	} {
		got, err := ToLogLevel(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ToLogLevel("verbose")
	assert.Error(t, err)
}

func TestSetLoggerIgnoresNil(t *testing.T) {
	before := GetLogger()
	SetLogger(nil)
	assert.Same(t, before, GetLogger())
}

// TestConcurrentLogging tests thread safety of the TestLogger
func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	const goroutines, perGoroutine = 4, 5
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				testLogger.Info("message", "goroutine_id", id, "message_id", j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, goroutines*perGoroutine)
}

// BenchmarkLogging benchmarks logging performance
func BenchmarkLogging(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelInfo)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testLogger.Info("benchmark message",
			"iteration", i,
			OperationKey, OperationPredict,
			SamplesKey, 1000,
		)
	}
}
