// Package dependencies plans the native package manager bootstrap and install
// commands for the host platform.
package dependencies
