package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/caengine/caebuild/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
	genericFailureExitCode    = 1
)

type exitCoder interface {
	ExitCode() int
}

// main executes the caebuild command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(exitCodeFor(executionError))
	}
}

func exitCodeFor(executionError error) int {
	var coder exitCoder
	if errors.As(executionError, &coder) && coder.ExitCode() > 0 {
		return coder.ExitCode()
	}
	return genericFailureExitCode
}
