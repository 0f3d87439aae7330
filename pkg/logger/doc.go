// Package logger provides a thin factory around log/slog plus typed attribute
// helpers shared across the codebase.
//
// The factory produces JSON output at info level by default; WithDevelopment
// switches to human-readable text at debug level. Attribute helpers keep log
// keys consistent (error, component, email, provider) and the Token helper
// masks credential values before they reach a log record.
package logger
