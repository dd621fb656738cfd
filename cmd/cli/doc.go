// Package cli constructs the caebuild command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives into the build, preset, deps, and doctor commands.
package cli
