// Package log provides secure structured logging for the auditor.
//
// The auditor handles one genuinely sensitive value, the moderation API
// key, plus whatever request headers a site scan may echo back. The
// RedactHandler wraps any slog.Handler and masks attribute values that
// look like credentials before they reach the output, so a careless
// logging call cannot leak the key into terminal scrollback or shipped
// log files.
package log
