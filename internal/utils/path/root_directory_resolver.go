package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	tildeSymbolConstant                    = "~"
	tildeForwardSlashPrefixConstant        = "~/"
	currentDirectoryConstant               = "."
	homeDirectoryLookupErrorTemplate       = "unable to resolve home directory for %s: %w"
	absolutePathResolutionErrorTemplate    = "unable to resolve absolute path for %s: %w"
	absolutePathResolverMissingMessageText = "absolute path resolver not configured"
)

var errAbsolutePathResolverMissing = errors.New(absolutePathResolverMissingMessageText)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// AbsolutePathResolver converts a relative path into an absolute one.
type AbsolutePathResolver func(string) (string, error)

// RootDirectoryResolver expands home shortcuts and produces absolute project roots.
type RootDirectoryResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	absolutePathResolver  AbsolutePathResolver
}

// NewRootDirectoryResolverWithProviders constructs a resolver with custom lookups.
// A nil home provider falls back to os.UserHomeDir.
func NewRootDirectoryResolverWithProviders(homeDirectoryProvider HomeDirectoryProvider, absolutePathResolver AbsolutePathResolver) RootDirectoryResolver {
	if homeDirectoryProvider == nil {
		homeDirectoryProvider = os.UserHomeDir
	}
	return RootDirectoryResolver{
		homeDirectoryProvider: homeDirectoryProvider,
		absolutePathResolver:  absolutePathResolver,
	}
}

// Resolve trims the candidate, expands a leading tilde, and returns an absolute path.
// An empty candidate resolves to the current directory.
func (resolver RootDirectoryResolver) Resolve(candidatePath string) (string, error) {
	if resolver.absolutePathResolver == nil {
		return "", errAbsolutePathResolverMissing
	}

	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		trimmedPath = currentDirectoryConstant
	}

	expandedPath, expansionError := resolver.expandHomeDirectory(trimmedPath)
	if expansionError != nil {
		return "", expansionError
	}

	absolutePath, absoluteError := resolver.absolutePathResolver(expandedPath)
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathResolutionErrorTemplate, expandedPath, absoluteError)
	}

	return filepath.Clean(absolutePath), nil
}

func (resolver RootDirectoryResolver) expandHomeDirectory(candidatePath string) (string, error) {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath, nil
	}

	relativePath, isHomeRelative := trimHomePrefix(candidatePath)
	if !isHomeRelative {
		return candidatePath, nil
	}

	homeDirectory, homeError := resolver.homeDirectoryProvider()
	if homeError != nil {
		return "", fmt.Errorf(homeDirectoryLookupErrorTemplate, candidatePath, homeError)
	}

	if len(relativePath) == 0 {
		return homeDirectory, nil
	}
	return filepath.Join(homeDirectory, relativePath), nil
}

// trimHomePrefix reports whether the path is "~" or starts with "~" followed by a separator.
// "~user" style paths are left alone.
func trimHomePrefix(candidatePath string) (string, bool) {
	if candidatePath == tildeSymbolConstant {
		return "", true
	}
	if strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant) {
		return strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant), true
	}
	nativePrefix := tildeSymbolConstant + string(os.PathSeparator)
	if strings.HasPrefix(candidatePath, nativePrefix) {
		return strings.TrimPrefix(candidatePath, nativePrefix), true
	}
	return "", false
}
