package build_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/caengine/caebuild/internal/build"
	"github.com/caengine/caebuild/internal/execshell"
	"github.com/caengine/caebuild/internal/filesystem"
)

const (
	toolchainArgumentPrefixConstant = "-DCMAKE_TOOLCHAIN_FILE="
	testReleasePresetConstant       = "release"
)

type failingFileSystem struct {
	filesystem.OSFileSystem
	failure error
}

func (fileSystem failingFileSystem) MkdirAll(string, fs.FileMode) error {
	return fileSystem.failure
}

func newTestOrchestrator(testInstance *testing.T, tools build.ToolsConfiguration) *build.Orchestrator {
	testInstance.Helper()
	orchestrator, orchestratorError := build.NewOrchestrator(zap.NewNop(), filesystem.NewOSFileSystem(), tools)
	require.NoError(testInstance, orchestratorError)
	return orchestrator
}

func configureArguments(testInstance *testing.T, commands []execshell.ShellCommand) []string {
	testInstance.Helper()
	for _, command := range commands {
		if command.Role == execshell.CommandRoleConfigure {
			return command.Details.Arguments
		}
	}
	testInstance.Fatalf("no configure command in %v", commands)
	return nil
}

func TestNewOrchestratorRequiresFileSystem(testInstance *testing.T) {
	_, orchestratorError := build.NewOrchestrator(zap.NewNop(), nil, build.DefaultToolsConfiguration())
	require.ErrorIs(testInstance, orchestratorError, filesystem.ErrFileSystemNotConfigured)
}

func TestPrepareDirectoriesIsIdempotent(testInstance *testing.T) {
	config := build.NewBuildConfig(testInstance.TempDir())
	orchestrator := newTestOrchestrator(testInstance, build.DefaultToolsConfiguration())

	require.NoError(testInstance, orchestrator.PrepareDirectories(config))
	require.NoError(testInstance, orchestrator.PrepareDirectories(config))

	require.DirExists(testInstance, config.BuildDirectory)
	require.DirExists(testInstance, config.ShaderDirectory())
	entries, readError := os.ReadDir(config.BuildDirectory)
	require.NoError(testInstance, readError)
	require.Len(testInstance, entries, 1)
}

func TestPrepareDirectoriesWrapsCreationFailure(testInstance *testing.T) {
	creationFailure := errors.New("read-only filesystem")
	orchestrator, orchestratorError := build.NewOrchestrator(zap.NewNop(), failingFileSystem{failure: creationFailure}, build.DefaultToolsConfiguration())
	require.NoError(testInstance, orchestratorError)

	_, _, planError := orchestrator.PlanExplicit(build.NewBuildConfig(testInstance.TempDir()))
	require.ErrorIs(testInstance, planError, creationFailure)

	var creationError *filesystem.DirectoryCreationError
	require.ErrorAs(testInstance, planError, &creationError)
}

func TestPlanExplicitOrdersCommands(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	config := build.NewBuildConfig(rootDirectory)
	orchestrator := newTestOrchestrator(testInstance, build.DefaultToolsConfiguration())

	plan, resolvedConfig, planError := orchestrator.PlanExplicit(config)
	require.NoError(testInstance, planError)
	require.Empty(testInstance, resolvedConfig.ToolchainFile)
	require.DirExists(testInstance, config.ShaderDirectory())

	commands := plan.Commands()
	require.Len(testInstance, commands, 4)

	require.Equal(testInstance, []string{
		"glslc",
		filepath.Join(rootDirectory, "src", "shaders", "first.vert"),
		"-o",
		filepath.Join(rootDirectory, "build", "shaders", "first_vert.spv"),
	}, commands[0].Argv())
	require.Equal(testInstance, []string{
		"glslc",
		filepath.Join(rootDirectory, "src", "shaders", "first.frag"),
		"-o",
		filepath.Join(rootDirectory, "build", "shaders", "first_frag.spv"),
	}, commands[1].Argv())
	require.Equal(testInstance, []string{
		"cmake",
		"-DCMAKE_EXPORT_COMPILE_COMMANDS=1",
		"-B", filepath.Join(rootDirectory, "build"),
		"-S", rootDirectory,
		"-G", "Ninja",
	}, commands[2].Argv())
	require.Equal(testInstance, []string{"ninja"}, commands[3].Argv())
	require.Equal(testInstance, filepath.Join(rootDirectory, "build"), commands[3].Details.WorkingDirectory)
}

func TestPlanExplicitToolchainArgumentTracksDependencyRoot(testInstance *testing.T) {
	testCases := []struct {
		name                   string
		createDependencyRoot   bool
		expectToolchainPresent bool
	}{
		{name: "dependency_root_absent", createDependencyRoot: false, expectToolchainPresent: false},
		{name: "dependency_root_present", createDependencyRoot: true, expectToolchainPresent: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			rootDirectory := subtestInstance.TempDir()
			if testCase.createDependencyRoot {
				require.NoError(subtestInstance, os.MkdirAll(filepath.Join(rootDirectory, "vcpkg"), 0o755))
			}
			orchestrator := newTestOrchestrator(subtestInstance, build.DefaultToolsConfiguration())

			plan, _, planError := orchestrator.PlanExplicit(build.NewBuildConfig(rootDirectory))
			require.NoError(subtestInstance, planError)

			arguments := configureArguments(subtestInstance, plan.Commands())
			expectedArgument := toolchainArgumentPrefixConstant + filepath.Join(rootDirectory, "vcpkg", "scripts", "buildsystems", "vcpkg.cmake")
			toolchainArguments := 0
			for _, argument := range arguments {
				if strings.HasPrefix(argument, toolchainArgumentPrefixConstant) {
					toolchainArguments++
				}
			}
			if testCase.expectToolchainPresent {
				require.Contains(subtestInstance, arguments, expectedArgument)
				require.Equal(subtestInstance, 1, toolchainArguments)
				return
			}
			require.Zero(subtestInstance, toolchainArguments)
		})
	}
}

func TestPlanExplicitLogsOmittedToolchain(testInstance *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	orchestrator, orchestratorError := build.NewOrchestrator(zap.New(core), filesystem.NewOSFileSystem(), build.DefaultToolsConfiguration())
	require.NoError(testInstance, orchestratorError)

	_, _, planError := orchestrator.PlanExplicit(build.NewBuildConfig(testInstance.TempDir()))
	require.NoError(testInstance, planError)
	require.Equal(testInstance, 1, recorded.FilterMessageSnippet("without toolchain file").Len())
}

func TestPlanExplicitAppendsConfiguredArguments(testInstance *testing.T) {
	tools := build.DefaultToolsConfiguration()
	tools.ConfigureArguments = `-DCMAKE_BUILD_TYPE=Debug "-DEXTRA_FLAGS=-O0 -g"`
	orchestrator := newTestOrchestrator(testInstance, tools)

	plan, _, planError := orchestrator.PlanExplicit(build.NewBuildConfig(testInstance.TempDir()))
	require.NoError(testInstance, planError)

	arguments := configureArguments(testInstance, plan.Commands())
	require.Equal(testInstance, []string{"-DCMAKE_BUILD_TYPE=Debug", "-DEXTRA_FLAGS=-O0 -g", "-G", "Ninja"}, arguments[len(arguments)-4:])

	tools.ConfigureArguments = `"unterminated`
	brokenOrchestrator := newTestOrchestrator(testInstance, tools)
	_, _, brokenError := brokenOrchestrator.PlanExplicit(build.NewBuildConfig(testInstance.TempDir()))
	require.Error(testInstance, brokenError)
}

func TestPlanExplicitHonorsConfiguredShaders(testInstance *testing.T) {
	tools := build.DefaultToolsConfiguration()
	tools.ShaderCompiler = "glslangValidator"
	tools.Shaders = []build.ShaderConfiguration{{Source: "sky.comp", Output: "sky_comp.spv"}, {Source: " ", Output: "ignored.spv"}}
	orchestrator := newTestOrchestrator(testInstance, tools)

	plan, _, planError := orchestrator.PlanExplicit(build.NewBuildConfig(testInstance.TempDir()))
	require.NoError(testInstance, planError)

	commands := plan.Commands()
	require.Len(testInstance, commands, 3)
	require.Equal(testInstance, execshell.CommandName("glslangValidator"), commands[0].Name)
	require.Equal(testInstance, "sky_comp.spv", filepath.Base(commands[0].Details.Arguments[2]))
}

func TestPlanPresetProducesConfigureAndBuild(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(rootDirectory, "vcpkg"), 0o755))
	orchestrator := newTestOrchestrator(testInstance, build.DefaultToolsConfiguration())

	plan, presetConfig, planError := orchestrator.PlanPreset(build.NewBuildConfig(rootDirectory), testReleasePresetConstant)
	require.NoError(testInstance, planError)

	expectedBuildDirectory := filepath.Join(rootDirectory, "build", testReleasePresetConstant)
	require.Equal(testInstance, expectedBuildDirectory, presetConfig.BuildDirectory)
	require.Equal(testInstance, testReleasePresetConstant, presetConfig.PresetName)
	require.Empty(testInstance, presetConfig.ToolchainFile)
	require.DirExists(testInstance, filepath.Join(expectedBuildDirectory, "shaders"))

	commands := plan.Commands()
	require.Len(testInstance, commands, 2)
	require.Equal(testInstance, []string{"cmake", "--preset", testReleasePresetConstant}, commands[0].Argv())
	require.Equal(testInstance, rootDirectory, commands[0].Details.WorkingDirectory)
	require.Equal(testInstance, []string{"ninja"}, commands[1].Argv())
	require.Equal(testInstance, expectedBuildDirectory, commands[1].Details.WorkingDirectory)
}

func TestPlanPresetBuildDirectoryFollowsPresetName(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	orchestrator := newTestOrchestrator(testInstance, build.DefaultToolsConfiguration())

	for _, presetName := range []string{"debug", "release", "ci-linux-clang", "RelWithDebInfo"} {
		_, presetConfig, planError := orchestrator.PlanPreset(build.NewBuildConfig(rootDirectory), presetName)
		require.NoError(testInstance, planError)
		require.Equal(testInstance, filepath.Join(rootDirectory, "build", presetName), presetConfig.BuildDirectory)
	}
}

func TestPlanPresetRejectsInvalidNames(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	orchestrator := newTestOrchestrator(testInstance, build.DefaultToolsConfiguration())

	_, _, emptyError := orchestrator.PlanPreset(build.NewBuildConfig(rootDirectory), "  ")
	require.ErrorIs(testInstance, emptyError, build.ErrPresetNameRequired)

	for _, presetName := range []string{"..", ".", "a/b", `a\b`} {
		_, _, planError := orchestrator.PlanPreset(build.NewBuildConfig(rootDirectory), presetName)
		require.Error(testInstance, planError, presetName)
	}
	require.NoDirExists(testInstance, filepath.Join(rootDirectory, "build"))
}

func TestPlanRequiresRootDirectory(testInstance *testing.T) {
	orchestrator := newTestOrchestrator(testInstance, build.DefaultToolsConfiguration())

	_, _, explicitError := orchestrator.PlanExplicit(build.BuildConfig{})
	require.ErrorIs(testInstance, explicitError, build.ErrRootDirectoryRequired)

	_, _, presetError := orchestrator.PlanPreset(build.BuildConfig{}, testReleasePresetConstant)
	require.ErrorIs(testInstance, presetError, build.ErrRootDirectoryRequired)
}

func TestNewBuildConfigWithLayoutKeepsAbsoluteDirectories(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	outputDirectory := testInstance.TempDir()

	config := build.NewBuildConfigWithLayout(rootDirectory, outputDirectory, "engine", "")

	require.Equal(testInstance, outputDirectory, config.BuildDirectory)
	require.Equal(testInstance, rootDirectory+string(os.PathSeparator)+"engine", config.SourceDirectory)
	require.Equal(testInstance, filepath.Join(rootDirectory, "vcpkg"), config.DependencyDirectory)
	require.Equal(testInstance, filepath.Join(outputDirectory, "shaders"), config.ShaderDirectory())
}
