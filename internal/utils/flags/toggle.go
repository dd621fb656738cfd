package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue               = "true"
	toggleFalseCanonicalValue              = "false"
	toggleParseErrorTemplate               = "invalid toggle value %q"
	toggleTypeNameConstant                 = "bool"
	toggleArgumentTruePlaceholderConstant  = "<YES|no>"
	toggleArgumentFalsePlaceholderConstant = "<yes|NO>"
	toggleUsageEmptyTemplate               = "`%s`"
	toggleUsageFullTemplate                = "`%s` %s"
)

var toggleLiterals = map[string]bool{
	toggleTrueCanonicalValue:  true,
	"yes":                     true,
	"on":                      true,
	"1":                       true,
	"y":                       true,
	toggleFalseCanonicalValue: false,
	"no":                      false,
	"off":                     false,
	"0":                       false,
	"n":                       false,
}

// AddToggleFlag registers a boolean flag that also accepts yes/no and on/off values.
// A bare flag sets the target to true.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 || flagSet.Lookup(name) != nil {
		return
	}
	flagSet.Var(newToggleValue(target, defaultValue), name, formatToggleUsage(usage, defaultValue))
	flagSet.Lookup(name).NoOptDefVal = toggleTrueCanonicalValue
}

type toggleValue struct {
	target *bool
}

func newToggleValue(target *bool, defaultValue bool) *toggleValue {
	if target == nil {
		target = new(bool)
	}
	*target = defaultValue
	return &toggleValue{target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := ParseToggle(rawValue)
	if parseError != nil {
		return parseError
	}
	*value.target = parsedValue
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil || !*value.target {
		return toggleFalseCanonicalValue
	}
	return toggleTrueCanonicalValue
}

func (value *toggleValue) Type() string {
	return toggleTypeNameConstant
}

// ParseToggle interprets a toggle literal. An empty value means true.
func ParseToggle(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}
	parsedValue, known := toggleLiterals[normalizedValue]
	if !known {
		return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
	return parsedValue, nil
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleArgumentFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleArgumentTruePlaceholderConstant
	}
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(toggleUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(toggleUsageFullTemplate, placeholder, trimmedDescription)
}
