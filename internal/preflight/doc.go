// Package preflight verifies that the tools and directories a build needs are
// present before any command runs, and backs the doctor command.
package preflight
