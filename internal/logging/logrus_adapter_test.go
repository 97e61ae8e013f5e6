package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{name: "debug level with text format", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info level with json format", level: "info", format: "json", expectLevel: logrus.InfoLevel},
		{name: "upper case level", level: "WARN", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level defaults to info", level: "invalid", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterWithOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("info", "json", &buf)

	logger.Info("statistics recomputed", F(FieldPeriod, "current_month"), F(FieldCount, 3))

	output := buf.String()
	assert.Contains(t, output, `"msg":"statistics recomputed"`)
	assert.Contains(t, output, `"period":"current_month"`)
	assert.Contains(t, output, `"count":3`)
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	require.NotNil(t, logger)

	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func newBufferedLogger(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestLogrusAdapter_LoggingMethods(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...Field)
		message string
	}{
		{name: "Debug", logFunc: func(l Logger, m string, f ...Field) { l.Debug(m, f...) }, message: "debug message"},
		{name: "Info", logFunc: func(l Logger, m string, f ...Field) { l.Info(m, f...) }, message: "info message"},
		{name: "Warn", logFunc: func(l Logger, m string, f ...Field) { l.Warn(m, f...) }, message: "warn message"},
		{name: "Error", logFunc: func(l Logger, m string, f ...Field) { l.Error(m, f...) }, message: "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedLogger(logrus.DebugLevel)
			tt.logFunc(logger, tt.message, F(FieldWalletID, 7))

			output := buf.String()
			assert.Contains(t, output, tt.message)
			assert.Contains(t, output, "wallet_id=7")
		})
	}
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedLogger(logrus.InfoLevel)

	logger.
		WithField(FieldSource, "remote").
		WithFields(F(FieldEndpoint, "/stats")).
		WithError(errors.New("connection refused")).
		Error("remote statistics failed")

	output := buf.String()
	assert.Contains(t, output, "remote statistics failed")
	assert.Contains(t, output, "source=remote")
	assert.Contains(t, output, "endpoint=/stats")
	assert.Contains(t, output, "connection refused")
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	assert.NotPanics(t, func() {
		logger.WithField("k", "v").Error("dropped")
	})
}

func TestConvertFields(t *testing.T) {
	fields := convertFields([]Field{F("key1", "value1"), F("key2", 42)})
	assert.Len(t, fields, 2)
	assert.Equal(t, "value1", fields["key1"])
	assert.Equal(t, 42, fields["key2"])

	assert.Len(t, convertFields(nil), 0)
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
