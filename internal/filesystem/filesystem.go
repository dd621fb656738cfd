package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	fileSystemNotConfiguredMessageConstant = "filesystem not configured"
	directoryCreationErrorTemplateConstant = "unable to create directory %s: %v"
)

// DirectoryPermissions is applied to every directory the pipeline creates.
const DirectoryPermissions fs.FileMode = 0o755

// FileSystem exposes filesystem operations required by the build pipeline.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	MkdirAll(path string, permissions fs.FileMode) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// NewOSFileSystem constructs an OSFileSystem.
func NewOSFileSystem() OSFileSystem {
	return OSFileSystem{}
}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
// An existing directory is not an error.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// DirectoryExists reports whether path exists and is a directory.
func DirectoryExists(fileSystem FileSystem, path string) bool {
	if fileSystem == nil {
		return false
	}
	information, statError := fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return information.IsDir()
}

// EnsureDirectories creates every directory in order, stopping at the first failure.
func EnsureDirectories(fileSystem FileSystem, directories ...string) error {
	if fileSystem == nil {
		return ErrFileSystemNotConfigured
	}
	for _, directory := range directories {
		if creationError := fileSystem.MkdirAll(directory, DirectoryPermissions); creationError != nil {
			return &DirectoryCreationError{Directory: directory, Cause: creationError}
		}
	}
	return nil
}

// ErrFileSystemNotConfigured indicates a component was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)

// DirectoryCreationError reports a directory that could not be created.
type DirectoryCreationError struct {
	Directory string
	Cause     error
}

// Error describes the failure.
func (creationError *DirectoryCreationError) Error() string {
	return fmt.Sprintf(directoryCreationErrorTemplateConstant, creationError.Directory, creationError.Cause)
}

// Unwrap exposes the underlying filesystem error.
func (creationError *DirectoryCreationError) Unwrap() error {
	return creationError.Cause
}
