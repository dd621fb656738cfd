package dependencies

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform is the closed set of host families the installer knows how to serve.
type Platform int

// Supported platform families.
const (
	PlatformUnsupported Platform = iota
	PlatformPOSIX
	PlatformWindows
)

const (
	platformUnsupportedNameConstant = "unsupported"
	platformPOSIXNameConstant       = "posix"
	platformWindowsNameConstant     = "windows"
	windowsNTIdentifierConstant     = "nt"
	unsupportedPlatformTemplate     = "Unsupported platform: %s"
)

var posixIdentifiers = map[string]struct{}{
	platformPOSIXNameConstant: {},
	"linux":                   {},
	"darwin":                  {},
	"freebsd":                 {},
	"netbsd":                  {},
	"openbsd":                 {},
	"dragonfly":               {},
	"solaris":                 {},
	"illumos":                 {},
	"aix":                     {},
	"android":                 {},
	"ios":                     {},
}

// String returns the lower-case family name.
func (platform Platform) String() string {
	switch platform {
	case PlatformPOSIX:
		return platformPOSIXNameConstant
	case PlatformWindows:
		return platformWindowsNameConstant
	case PlatformUnsupported:
		return platformUnsupportedNameConstant
	default:
		return platformUnsupportedNameConstant
	}
}

// DetectPlatform classifies an operating system identifier such as a GOOS value.
// The family names "posix", "windows" and "nt" are accepted as well.
func DetectPlatform(identifier string) Platform {
	normalizedIdentifier := strings.ToLower(strings.TrimSpace(identifier))
	if _, isPOSIX := posixIdentifiers[normalizedIdentifier]; isPOSIX {
		return PlatformPOSIX
	}
	switch normalizedIdentifier {
	case platformWindowsNameConstant, windowsNTIdentifierConstant:
		return PlatformWindows
	default:
		return PlatformUnsupported
	}
}

// HostPlatformIdentifier returns the identifier of the running operating system.
func HostPlatformIdentifier() string {
	return runtime.GOOS
}

// UnsupportedPlatformError reports an identifier that maps to no command set.
type UnsupportedPlatformError struct {
	Identifier string
}

// Error describes the unsupported identifier.
func (unsupportedError UnsupportedPlatformError) Error() string {
	return fmt.Sprintf(unsupportedPlatformTemplate, unsupportedError.Identifier)
}
