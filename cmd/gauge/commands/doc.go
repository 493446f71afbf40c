// Package commands defines the gauge CLI.
//
// Commands
//
//   - units        List the pressure or vacuum unit catalog
//   - convert      Convert one value and print the result table
//   - watch        Follow a file of readings and print live conversions
//   - boiling      Compute P2 or T2 with the Clausius-Clapeyron provider
//   - barometric   Compute a barometric leg height
//
// # Implementation
//
// The root command loads configuration (file, GAUGE_ env vars, flags) and
// builds one HTTP client before any subcommand runs. Library signals are
// hooked into a slog logger on stderr; --verbose switches it to JSON at
// debug level.
package commands
