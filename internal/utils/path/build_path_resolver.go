package pathutils

import (
	"path/filepath"
	"strings"
)

// BuildPathResolver joins a root directory and path segments using the host separator.
type BuildPathResolver struct{}

// NewBuildPathResolver constructs a BuildPathResolver.
func NewBuildPathResolver() BuildPathResolver {
	return BuildPathResolver{}
}

// Resolve returns the root directory joined with every segment in order.
// Segments are neither validated nor cleaned: "..", "." and repeated separators are kept as written.
func (resolver BuildPathResolver) Resolve(rootDirectory string, segments ...string) string {
	pathElements := make([]string, 0, len(segments)+1)
	pathElements = append(pathElements, rootDirectory)
	pathElements = append(pathElements, segments...)
	return strings.Join(pathElements, string(filepath.Separator))
}
