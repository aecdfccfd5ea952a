// Package common provides the configuration and logging pieces shared by the
// library packages and the CLI.
//
// Key Components:
//
//   - Config: where the persistent slot lives (engine, data directory, slot key) and
//     where the bootstrap document comes from. Validated with go-playground/validator.
//
//   - Logger: a custom implementation of dragonboat's logger.ILogger producing
//     "LEVEL | name | message" lines on stderr. InitLoggers installs it as the global
//     factory so that every logger.GetLogger call in the module uses it.
package common
