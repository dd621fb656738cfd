package pipeline

const (
	failurePolicyContinueStringConstant = "continue"
	failurePolicyHaltStringConstant     = "halt"
)

// FailurePolicy decides what happens to the remaining steps after a step fails.
type FailurePolicy string

// Supported failure policies.
const (
	FailurePolicyContinue FailurePolicy = FailurePolicy(failurePolicyContinueStringConstant)
	FailurePolicyHalt     FailurePolicy = FailurePolicy(failurePolicyHaltStringConstant)
)

// PolicyFromHaltFlag maps the halt-on-failure toggle to a policy.
func PolicyFromHaltFlag(haltOnFailure bool) FailurePolicy {
	if haltOnFailure {
		return FailurePolicyHalt
	}
	return FailurePolicyContinue
}
