// Package flags provides helpers for binding standardized pipeline flags to Cobra commands.
package flags
