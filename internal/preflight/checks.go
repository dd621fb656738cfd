package preflight

import (
	"fmt"
	"os/exec"

	"github.com/caengine/caebuild/internal/build"
	"github.com/caengine/caebuild/internal/filesystem"
	pathutils "github.com/caengine/caebuild/internal/utils/path"
)

const (
	passedSymbolConstant             = "✓"
	failedSymbolConstant             = "✗"
	warningSymbolConstant            = "⚠"
	checkLineTemplateConstant        = "  %s %s: %s"
	toolCheckNameTemplateConstant    = "tool %s"
	toolFoundTemplateConstant        = "found at %s"
	toolMissingTemplateConstant      = "not found on PATH: %v"
	sourceDirectoryCheckNameConstant = "source_directory"
	dependencyRootCheckNameConstant  = "dependency_root"
	shaderCheckNameTemplateConstant  = "shader %s"
	directoryPresentTemplateConstant = "%s exists"
	directoryMissingTemplateConstant = "%s is missing"
	dependencyRootMissingTemplate    = "%s is missing; configure runs without a toolchain file"
	fileMissingTemplateConstant      = "%s is missing"
)

// LookupFunc resolves an executable name to a path.
type LookupFunc func(name string) (string, error)

// Check is the outcome of one preflight probe.
type Check struct {
	Name    string
	Passed  bool
	Warning bool
	Message string
}

// String renders the check as a single status line.
func (check Check) String() string {
	status := passedSymbolConstant
	if !check.Passed {
		status = failedSymbolConstant
	} else if check.Warning {
		status = warningSymbolConstant
	}
	return fmt.Sprintf(checkLineTemplateConstant, status, check.Name, check.Message)
}

// Result holds every check and whether all required ones passed.
type Result struct {
	Checks []Check
	Passed bool
}

// Checker runs preflight probes against a build configuration.
type Checker struct {
	fileSystem filesystem.FileSystem
	lookup     LookupFunc
}

// NewChecker constructs a Checker. A nil lookup falls back to exec.LookPath.
func NewChecker(fileSystem filesystem.FileSystem, lookup LookupFunc) *Checker {
	if lookup == nil {
		lookup = exec.LookPath
	}
	return &Checker{fileSystem: fileSystem, lookup: lookup}
}

// RunAll checks the configured tools, the source tree, each shader source, and the dependency root.
// A missing dependency root or shader source is a warning; the rest are required.
func (checker *Checker) RunAll(config build.BuildConfig, tools build.ToolsConfiguration) *Result {
	tools = tools.WithDefaults()
	result := &Result{Checks: make([]Check, 0, 8), Passed: true}
	record := func(check Check) {
		result.Checks = append(result.Checks, check)
		if !check.Passed {
			result.Passed = false
		}
	}

	for _, toolName := range []string{tools.ShaderCompiler, tools.Generator, tools.Backend} {
		record(checker.checkTool(toolName))
	}
	record(checker.checkSourceDirectory(config))
	resolver := pathutils.NewBuildPathResolver()
	for _, shader := range tools.Shaders {
		record(checker.checkShader(resolver.Resolve(config.SourceDirectory, "shaders", shader.Source), shader.Source))
	}
	record(checker.checkDependencyRoot(config))
	return result
}

func (checker *Checker) checkTool(toolName string) Check {
	name := fmt.Sprintf(toolCheckNameTemplateConstant, toolName)
	resolvedPath, lookupError := checker.lookup(toolName)
	if lookupError != nil {
		return Check{Name: name, Passed: false, Message: fmt.Sprintf(toolMissingTemplateConstant, lookupError)}
	}
	return Check{Name: name, Passed: true, Message: fmt.Sprintf(toolFoundTemplateConstant, resolvedPath)}
}

func (checker *Checker) checkSourceDirectory(config build.BuildConfig) Check {
	if filesystem.DirectoryExists(checker.fileSystem, config.SourceDirectory) {
		return Check{Name: sourceDirectoryCheckNameConstant, Passed: true, Message: fmt.Sprintf(directoryPresentTemplateConstant, config.SourceDirectory)}
	}
	return Check{Name: sourceDirectoryCheckNameConstant, Passed: false, Message: fmt.Sprintf(directoryMissingTemplateConstant, config.SourceDirectory)}
}

func (checker *Checker) checkShader(shaderPath string, shaderName string) Check {
	name := fmt.Sprintf(shaderCheckNameTemplateConstant, shaderName)
	if checker.fileSystem == nil {
		return Check{Name: name, Passed: true, Warning: true, Message: fmt.Sprintf(fileMissingTemplateConstant, shaderPath)}
	}
	information, statError := checker.fileSystem.Stat(shaderPath)
	if statError != nil || information.IsDir() {
		return Check{Name: name, Passed: true, Warning: true, Message: fmt.Sprintf(fileMissingTemplateConstant, shaderPath)}
	}
	return Check{Name: name, Passed: true, Message: fmt.Sprintf(directoryPresentTemplateConstant, shaderPath)}
}

func (checker *Checker) checkDependencyRoot(config build.BuildConfig) Check {
	if filesystem.DirectoryExists(checker.fileSystem, config.DependencyDirectory) {
		return Check{Name: dependencyRootCheckNameConstant, Passed: true, Message: fmt.Sprintf(directoryPresentTemplateConstant, config.DependencyDirectory)}
	}
	return Check{Name: dependencyRootCheckNameConstant, Passed: true, Warning: true, Message: fmt.Sprintf(dependencyRootMissingTemplate, config.DependencyDirectory)}
}
