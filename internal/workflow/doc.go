// Package workflow executes planned command pipelines: it renders dry-run plans,
// runs each step through the shell executor, and prints the closing summary.
package workflow
