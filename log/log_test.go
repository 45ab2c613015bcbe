package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rdp-studio/dn42-geoasn/option"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, level := range []Level{LevelPanic, LevelFatal, LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace} {
		parsed, err := ParseLevel(FormatLevel(level))
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}
	parsed, err := ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, parsed)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestFormatter(t *testing.T) {
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	formatter := Formatter{
		BaseTime:      baseTime,
		DisableColors: true,
	}
	message := formatter.Format(context.Background(), LevelInfo, "registry", "scanned 3 files", baseTime.Add(12*time.Second))
	assert.Equal(t, "INFO[0012] registry: scanned 3 files\n", message)

	formatter.DisableTimestamp = true
	message = formatter.Format(context.Background(), LevelWarn, "", "no name", baseTime)
	assert.Equal(t, "WARN no name\n", message)

	formatter.DisableLineBreak = true
	message = formatter.Format(context.Background(), LevelError, "", "broken\n", baseTime)
	assert.Equal(t, "ERROR broken", message)
}

func TestFormatterRequestID(t *testing.T) {
	formatter := Formatter{DisableColors: true, DisableTimestamp: true}
	ctx := ContextWithID(context.Background(), ID{ID: 42, CreatedAt: time.Now()})
	message := formatter.Format(ctx, LevelDebug, "api", "query", time.Now())
	assert.Contains(t, message, "[42 ")
	assert.Contains(t, message, "] api: query")
}

func TestFactoryLevelFilter(t *testing.T) {
	var buffer bytes.Buffer
	factory, err := New(Options{
		Options:       option.LogOptions{Level: "warn", DisableColor: true},
		DefaultWriter: &buffer,
		BaseTime:      time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, factory.Start())
	defer factory.Close()

	logger := factory.NewLogger("test")
	logger.Info("hidden")
	logger.Warn("shown ", 1)
	assert.NotContains(t, buffer.String(), "hidden")
	assert.Contains(t, buffer.String(), "test: shown 1")
}

func TestDisabledFactory(t *testing.T) {
	factory, err := New(Options{Options: option.LogOptions{Disabled: true}})
	require.NoError(t, err)
	factory.Logger().Error("nothing happens")
	assert.NoError(t, factory.Close())
}

func TestJSONOutputEvent(t *testing.T) {
	var buffer bytes.Buffer
	factory := NewMultiOutputFactory(context.Background(), []Output{NewJSONOutput(&buffer, "", "builder-1")})
	logger := factory.NewLogger("registry")

	event := NewRecordEvent("skipped", "172.20.0.0/24", "AS4242420000").
		WithClass("route").
		WithReason(errors.New("aut-num not found"))
	WithRecordEvent(logger, context.Background(), LevelWarn, event, "no name")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &doc))
	assert.Equal(t, "warn", doc["level"])
	assert.Equal(t, "no name", doc["message"])
	assert.Equal(t, "registry", doc["tag"])
	eventDoc, ok := doc["event"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "record", eventDoc["type"])
	assert.Equal(t, "172.20.0.0/24", eventDoc["prefix"])
	assert.Equal(t, "route", eventDoc["class"])
	assert.Equal(t, "aut-num not found", eventDoc["reason"])
}
