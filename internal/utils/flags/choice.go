package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix  = "<"
	choicePlaceholderSuffix  = ">"
	choiceSeparatorLiteral   = "|"
	choiceUsageEmptyTemplate = "`%s`"
	choiceUsageFullTemplate  = "`%s` %s"
	choiceTypeNameConstant   = "string"
	invalidChoiceTemplate    = "invalid value %q: expected one of %s"
	choiceListSeparator      = ", "
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	displayed := make([]string, 0, len(choices))
	for _, choice := range uniqueChoices(choices) {
		if strings.ToLower(choice) == normalizedDefault {
			choice = strings.ToUpper(choice)
		}
		displayed = append(displayed, choice)
	}
	placeholder := choicePlaceholderPrefix + strings.Join(displayed, choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// AddChoiceFlag registers a string flag restricted to the supplied choices, compared case-insensitively.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, description string) {
	if flagSet == nil || len(name) == 0 || flagSet.Lookup(name) != nil {
		return
	}
	if target == nil {
		target = new(string)
	}
	*target = defaultChoice
	flagSet.Var(&choiceValue{target: target, choices: uniqueChoices(choices)}, name, FormatChoiceUsage(defaultChoice, choices, description))
}

type choiceValue struct {
	target  *string
	choices []string
}

func (value *choiceValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	for _, choice := range value.choices {
		if strings.ToLower(choice) == normalizedValue {
			*value.target = choice
			return nil
		}
	}
	return fmt.Errorf(invalidChoiceTemplate, rawValue, strings.Join(value.choices, choiceListSeparator))
}

func (value *choiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

func (value *choiceValue) Type() string {
	return choiceTypeNameConstant
}

func uniqueChoices(choices []string) []string {
	unique := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		unique = append(unique, trimmedChoice)
	}
	return unique
}
