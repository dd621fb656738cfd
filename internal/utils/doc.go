// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging for the CLI, plus the context
// accessor that carries the configuration file path between Cobra hooks.
package utils
