// Package ui provides helpers for formatting human-readable console output.
//
// The helpers translate command lifecycle events and pipeline reports into concise
// console messages while detailed telemetry continues to flow through structured loggers.
package ui
