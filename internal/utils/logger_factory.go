package utils

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	consoleMessageKeyConstant            = "message"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// SupportedLogLevels lists the accepted log level names.
func SupportedLogLevels() []string {
	return []string{logLevelDebugStringConstant, logLevelInfoStringConstant, logLevelWarnStringConstant, logLevelErrorStringConstant}
}

// SupportedLogFormats lists the accepted log format names.
func SupportedLogFormats() []string {
	return []string{logFormatStructuredStringConstant, logFormatConsoleStringConstant}
}

// LoggerOutputs pairs the diagnostic logger with the human-facing console logger.
type LoggerOutputs struct {
	// DiagnosticLogger carries structured telemetry at the configured level.
	DiagnosticLogger *zap.Logger
	// ConsoleLogger prints bare messages for the command trace.
	ConsoleLogger *zap.Logger
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct {
	diagnosticSink zapcore.WriteSyncer
	consoleSink    zapcore.WriteSyncer
}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// NewLoggerFactory constructs a factory writing diagnostics to standard error and the console trace to standard output.
func NewLoggerFactory() *LoggerFactory {
	return NewLoggerFactoryWithSinks(zapcore.Lock(os.Stderr), zapcore.Lock(os.Stdout))
}

// NewLoggerFactoryWithSinks constructs a factory writing to the provided sinks.
func NewLoggerFactoryWithSinks(diagnosticSink zapcore.WriteSyncer, consoleSink zapcore.WriteSyncer) *LoggerFactory {
	return &LoggerFactory{diagnosticSink: diagnosticSink, consoleSink: consoleSink}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
// Only the structured format attaches stack traces to error entries.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[LogLevel(strings.ToLower(strings.TrimSpace(string(requestedLogLevel))))]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder

	loggerOptions := []zap.Option{zap.AddCaller()}
	var encoder zapcore.Encoder
	switch LogFormat(strings.ToLower(strings.TrimSpace(string(requestedLogFormat)))) {
	case LogFormatStructured:
		encoder = zapcore.NewJSONEncoder(encoderConfiguration)
		loggerOptions = append(loggerOptions, zap.AddStacktrace(zapcore.ErrorLevel))
	case LogFormatConsole:
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	core := zapcore.NewCore(encoder, factory.diagnosticSink, zap.NewAtomicLevelAt(zapLogLevel))
	return zap.New(core, loggerOptions...), nil
}

// CreateConsoleLogger produces a logger that prints only the message of each entry at info level and above.
func (factory *LoggerFactory) CreateConsoleLogger() *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:     consoleMessageKeyConstant,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	return zap.New(zapcore.NewCore(encoder, factory.consoleSink, zap.NewAtomicLevelAt(zapcore.InfoLevel)))
}

// CreateLoggerOutputs produces the diagnostic and console loggers used by the CLI.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	diagnosticLogger, diagnosticError := factory.CreateLogger(requestedLogLevel, requestedLogFormat)
	if diagnosticError != nil {
		return LoggerOutputs{}, diagnosticError
	}
	return LoggerOutputs{DiagnosticLogger: diagnosticLogger, ConsoleLogger: factory.CreateConsoleLogger()}, nil
}
