// Package execshell runs external build tools one at a time and reports what
// happened.
//
// ShellCommand describes an invocation, OSCommandRunner executes it with
// os/exec and waits for the process to terminate before reading its exit
// status, and ShellExecutor layers structured logging and lifecycle
// notifications on top so that callers receive every ExecutionResult.
package execshell
