package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caengine/caebuild/internal/pipeline"
)

func TestExitCodeForPropagatesPipelineFailures(testInstance *testing.T) {
	failure := &pipeline.FailureError{PlanName: "build", FailedSteps: 1, TotalSteps: 4, Code: 4}
	require.Equal(testInstance, 4, exitCodeFor(failure))
	require.Equal(testInstance, 4, exitCodeFor(fmt.Errorf("wrapped: %w", failure)))
	require.Equal(testInstance, 1, exitCodeFor(errors.New("configuration invalid")))
}
