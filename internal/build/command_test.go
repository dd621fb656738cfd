package build_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caengine/caebuild/internal/build"
	"github.com/caengine/caebuild/internal/execshell"
	"github.com/caengine/caebuild/internal/filesystem"
	"github.com/caengine/caebuild/internal/pipeline"
	"github.com/caengine/caebuild/internal/workflow"
)

type recordingCommandExecutor struct {
	exitCodes        map[execshell.CommandRole]int
	executedCommands []execshell.ShellCommand
}

func (executor *recordingCommandExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.executedCommands = append(executor.executedCommands, command)
	result := execshell.ExecutionResult{ExitCode: executor.exitCodes[command.Role]}
	if result.ExitCode != 0 {
		return result, execshell.CommandFailedError{Command: command, Result: result}
	}
	return result, nil
}

func newCommandBuilder(rootDirectory string, executor *recordingCommandExecutor, haltOnFailure bool) *build.CommandBuilder {
	return &build.CommandBuilder{
		ConfigurationProvider: func() build.CommandConfiguration {
			return build.CommandConfiguration{
				Project:  build.ProjectConfiguration{Root: rootDirectory},
				Tools:    build.DefaultToolsConfiguration(),
				Pipeline: workflow.Configuration{HaltOnFailure: haltOnFailure},
			}
		},
		CommandExecutor: executor,
	}
}

func TestBuildCommandRunsExplicitPipeline(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	executor := &recordingCommandExecutor{}
	command, buildError := newCommandBuilder(rootDirectory, executor, false).Build()
	require.NoError(testInstance, buildError)

	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetArgs([]string{})
	require.NoError(testInstance, command.Execute())

	require.Len(testInstance, executor.executedCommands, 4)
	require.Equal(testInstance, execshell.CommandRoleShaderCompile, executor.executedCommands[0].Role)
	require.Equal(testInstance, execshell.CommandRoleConfigure, executor.executedCommands[2].Role)
	require.Equal(testInstance, execshell.CommandRoleBuild, executor.executedCommands[3].Role)
	require.DirExists(testInstance, filepath.Join(rootDirectory, "build", "shaders"))
	require.Contains(testInstance, output.String(), "4 of 4 steps succeeded")
}

func TestBuildCommandDryRunDoesNotExecute(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	executor := &recordingCommandExecutor{}
	command, buildError := newCommandBuilder(rootDirectory, executor, false).Build()
	require.NoError(testInstance, buildError)

	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetArgs([]string{"--dry-run"})
	require.NoError(testInstance, command.Execute())

	require.Empty(testInstance, executor.executedCommands)
	require.Contains(testInstance, output.String(), "plan: build")
	require.DirExists(testInstance, filepath.Join(rootDirectory, "build", "shaders"))
}

func TestBuildCommandRejectsArguments(testInstance *testing.T) {
	command, buildError := newCommandBuilder(testInstance.TempDir(), &recordingCommandExecutor{}, false).Build()
	require.NoError(testInstance, buildError)

	command.SetArgs([]string{"extra"})
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	require.Error(testInstance, command.Execute())
}

func TestBuildCommandHaltPolicy(testInstance *testing.T) {
	testCases := []struct {
		name             string
		configuredHalt   bool
		arguments        []string
		expectedExecuted int
	}{
		{name: "continue_by_default", configuredHalt: false, arguments: []string{}, expectedExecuted: 4},
		{name: "halt_from_configuration", configuredHalt: true, arguments: []string{}, expectedExecuted: 1},
		{name: "halt_from_flag", configuredHalt: false, arguments: []string{"--halt-on-failure"}, expectedExecuted: 1},
		{name: "flag_disables_configured_halt", configuredHalt: true, arguments: []string{"--halt-on-failure=no"}, expectedExecuted: 4},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			executor := &recordingCommandExecutor{exitCodes: map[execshell.CommandRole]int{execshell.CommandRoleShaderCompile: 4}}
			command, buildError := newCommandBuilder(subtestInstance.TempDir(), executor, testCase.configuredHalt).Build()
			require.NoError(subtestInstance, buildError)

			command.SetOut(&bytes.Buffer{})
			command.SetErr(&bytes.Buffer{})
			command.SetArgs(testCase.arguments)
			executionError := command.Execute()

			var failureError *pipeline.FailureError
			require.True(subtestInstance, errors.As(executionError, &failureError))
			require.Equal(subtestInstance, 4, failureError.ExitCode())
			require.Len(subtestInstance, executor.executedCommands, testCase.expectedExecuted)
		})
	}
}

func TestPresetCommandRunsPresetPipeline(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(rootDirectory, "vcpkg"), 0o755))
	executor := &recordingCommandExecutor{}
	command, buildError := newCommandBuilder(rootDirectory, executor, false).BuildPreset()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetArgs([]string{"release"})
	require.NoError(testInstance, command.Execute())

	require.Len(testInstance, executor.executedCommands, 2)
	require.Equal(testInstance, []string{"cmake", "--preset", "release"}, executor.executedCommands[0].Argv())
	require.Equal(testInstance, filepath.Join(rootDirectory, "build", "release"), executor.executedCommands[1].Details.WorkingDirectory)
}

func TestPresetCommandRequiresName(testInstance *testing.T) {
	command, buildError := newCommandBuilder(testInstance.TempDir(), &recordingCommandExecutor{}, false).BuildPreset()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{})
	require.Error(testInstance, command.Execute())

	command.SetArgs([]string{".."})
	require.Error(testInstance, command.Execute())
}

type anchoredFileSystem struct {
	filesystem.OSFileSystem
	baseDirectory string
}

func (fileSystem anchoredFileSystem) Abs(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join(fileSystem.baseDirectory, path), nil
}

func TestBuildCommandResolvesRootThroughFileSystem(testInstance *testing.T) {
	baseDirectory := testInstance.TempDir()
	executor := &recordingCommandExecutor{}
	builder := &build.CommandBuilder{
		ConfigurationProvider: func() build.CommandConfiguration {
			return build.CommandConfiguration{
				Project: build.ProjectConfiguration{Root: "engine"},
				Tools:   build.DefaultToolsConfiguration(),
			}
		},
		CommandExecutor: executor,
		FileSystem:      anchoredFileSystem{baseDirectory: baseDirectory},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetArgs([]string{})
	require.NoError(testInstance, command.Execute())

	expectedBuildDirectory := filepath.Join(baseDirectory, "engine", "build")
	require.DirExists(testInstance, filepath.Join(expectedBuildDirectory, "shaders"))
	require.Equal(testInstance, expectedBuildDirectory, executor.executedCommands[3].Details.WorkingDirectory)
}
