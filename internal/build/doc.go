// Package build plans the commands that turn the project sources into
// binaries: shader compilation, build-tree configuration, and the backend
// build. Two planning modes exist. Explicit mode computes the configure
// arguments itself and injects the dependency toolchain file when the
// dependency root is present; preset mode delegates those details to a named
// build preset.
package build
