// Package pathutils builds platform-native filesystem paths for the build
// pipeline and normalizes the configured project root.
package pathutils
