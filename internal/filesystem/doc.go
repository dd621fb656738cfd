// Package filesystem exposes the filesystem operations used to prepare build
// output directories and probe dependency roots, behind an interface that
// tests can replace.
package filesystem
